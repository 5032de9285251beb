package service

import (
	"context"
	"fmt"

	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/repository"
)

type AdminService interface {
	PendingVendors(ctx context.Context) ([]*model.Vendor, error)
	ToggleVendorApproval(ctx context.Context, vendorID string) (*model.Vendor, error)
	ToggleUserBlock(ctx context.Context, userID string) (*model.User, error)
	DeleteVendor(ctx context.Context, vendorID string) error
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListVendors(ctx context.Context) ([]*model.Vendor, error)
	UserOrders(ctx context.Context, userID string) ([]*model.Order, error)
	VendorListings(ctx context.Context, vendorID string) ([]*model.Listing, error)
}

type adminServiceImpl struct {
	userRepo    repository.UserRepository
	vendorRepo  repository.VendorRepository
	listingRepo repository.ListingRepository
	orderRepo   repository.OrderRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	vendorRepo repository.VendorRepository,
	listingRepo repository.ListingRepository,
	orderRepo repository.OrderRepository,
) AdminService {
	return &adminServiceImpl{
		userRepo:    userRepo,
		vendorRepo:  vendorRepo,
		listingRepo: listingRepo,
		orderRepo:   orderRepo,
	}
}

func (s *adminServiceImpl) PendingVendors(ctx context.Context) ([]*model.Vendor, error) {
	return s.vendorRepo.FindPending(ctx)
}

func (s *adminServiceImpl) ToggleVendorApproval(ctx context.Context, vendorID string) (*model.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	vendor.IsApproved = !vendor.IsApproved
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	return vendor, nil
}

func (s *adminServiceImpl) ToggleUserBlock(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsBlocked = !user.IsBlocked
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteVendor removes the vendor and cascades to every listing they own.
// Past orders keep their price snapshots and stay queryable.
func (s *adminServiceImpl) DeleteVendor(ctx context.Context, vendorID string) error {
	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		return err
	}

	if err := s.listingRepo.DeleteByVendor(ctx, vendorID); err != nil {
		return fmt.Errorf("delete vendor listings: %w", err)
	}

	return s.vendorRepo.Delete(ctx, vendorID)
}

func (s *adminServiceImpl) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *adminServiceImpl) ListVendors(ctx context.Context) ([]*model.Vendor, error) {
	return s.vendorRepo.FindAll(ctx)
}

func (s *adminServiceImpl) UserOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}

func (s *adminServiceImpl) VendorListings(ctx context.Context, vendorID string) ([]*model.Listing, error) {
	return s.listingRepo.FindByVendor(ctx, vendorID)
}
