package service

import (
	"context"
	"log"
	"time"

	"surplus-marketplace/internal/clock"
	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/repository"

	"github.com/google/uuid"
)

type ListingService interface {
	Create(ctx context.Context, vendorID string, in *ListingInput) (*model.Listing, error)
	Update(ctx context.Context, vendorID, listingID string, in *ListingInput) (*model.Listing, error)
	Delete(ctx context.Context, vendorID, listingID string) error
	GetByID(ctx context.Context, listingID string) (*model.Listing, error)
	Browse(ctx context.Context, category model.ListingCategory) ([]*model.Listing, error)
	ListForVendor(ctx context.Context, vendorID string) ([]*model.Listing, error)
}

type ListingInput struct {
	Title           string
	Description     string
	Category        model.ListingCategory
	OriginalPrice   float64
	DiscountedPrice float64
	Quantity        int
	PickupStart     time.Time
	PickupEnd       time.Time
	Image           string
}

type listingServiceImpl struct {
	listingRepo repository.ListingRepository
	clock       clock.Clock
}

func NewListingService(listingRepo repository.ListingRepository, clk clock.Clock) ListingService {
	return &listingServiceImpl{
		listingRepo: listingRepo,
		clock:       clk,
	}
}

func (s *listingServiceImpl) Create(ctx context.Context, vendorID string, in *ListingInput) (*model.Listing, error) {
	listing := &model.Listing{
		ID:                uuid.NewString(),
		VendorID:          vendorID,
		Title:             in.Title,
		Description:       in.Description,
		Category:          in.Category,
		OriginalPrice:     in.OriginalPrice,
		DiscountedPrice:   in.DiscountedPrice,
		Quantity:          in.Quantity,
		RemainingQuantity: in.Quantity,
		PickupStart:       in.PickupStart,
		PickupEnd:         in.PickupEnd,
		Image:             in.Image,
		Status:            model.ListingActive,
	}
	if listing.Category == "" {
		listing.Category = model.CategoryMeals
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (s *listingServiceImpl) Update(ctx context.Context, vendorID, listingID string, in *ListingInput) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.VendorID != vendorID {
		return nil, model.ErrNotOwner
	}

	if in.Title != "" {
		listing.Title = in.Title
	}
	if in.Description != "" {
		listing.Description = in.Description
	}
	if in.Category != "" {
		listing.Category = in.Category
	}
	if in.OriginalPrice > 0 {
		listing.OriginalPrice = in.OriginalPrice
	}
	if in.DiscountedPrice > 0 {
		listing.DiscountedPrice = in.DiscountedPrice
	}
	if in.Quantity > 0 {
		// A quantity edit re-issues stock: the remaining counter grows or
		// shrinks by the same delta, floored at zero.
		delta := in.Quantity - listing.Quantity
		listing.Quantity = in.Quantity
		listing.RemainingQuantity += delta
		if listing.RemainingQuantity < 0 {
			listing.RemainingQuantity = 0
		}
	}
	if !in.PickupStart.IsZero() {
		listing.PickupStart = in.PickupStart
	}
	if !in.PickupEnd.IsZero() {
		listing.PickupEnd = in.PickupEnd
	}
	if in.Image != "" {
		listing.Image = in.Image
	}

	// Re-derive status after the edit: an extended window revives an expired
	// listing, restocking revives a sold-out one.
	now := s.clock.Now()
	switch {
	case listing.PickupEnd.Before(now):
		listing.Status = model.ListingExpired
	case listing.RemainingQuantity <= 0:
		listing.Status = model.ListingSoldOut
	default:
		listing.Status = model.ListingActive
	}

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (s *listingServiceImpl) Delete(ctx context.Context, vendorID, listingID string) error {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.VendorID != vendorID {
		return model.ErrNotOwner
	}

	return s.listingRepo.Delete(ctx, listingID)
}

func (s *listingServiceImpl) GetByID(ctx context.Context, listingID string) (*model.Listing, error) {
	return s.listingRepo.FindByID(ctx, listingID)
}

// Browse self-heals stale statuses before serving, so a listing whose window
// closed between sweeper ticks is never shown as active.
func (s *listingServiceImpl) Browse(ctx context.Context, category model.ListingCategory) ([]*model.Listing, error) {
	now := s.clock.Now()
	if _, _, err := s.listingRepo.SweepStatuses(ctx, now); err != nil {
		// The read still serves; the next sweep tick corrects the statuses.
		log.Println("listing status self-heal:", err)
	}

	return s.listingRepo.FindOpen(ctx, now, category)
}

func (s *listingServiceImpl) ListForVendor(ctx context.Context, vendorID string) ([]*model.Listing, error) {
	return s.listingRepo.FindByVendor(ctx, vendorID)
}
