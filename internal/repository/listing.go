package repository

import (
	"context"
	"errors"
	"time"

	"surplus-marketplace/internal/model"

	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, listingID string) (*model.Listing, error)
	FindByVendor(ctx context.Context, vendorID string) ([]*model.Listing, error)
	FindOpen(ctx context.Context, now time.Time, category model.ListingCategory) ([]*model.Listing, error)
	Save(ctx context.Context, listing *model.Listing) error
	Delete(ctx context.Context, listingID string) error
	DeleteByVendor(ctx context.Context, vendorID string) error

	CommitStock(ctx context.Context, tx *gorm.DB, listingID string, qty int) error
	SweepStatuses(ctx context.Context, now time.Time) (expired, soldOut int64, err error)
}

type listingRepoImpl struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepoImpl{
		db: db,
	}
}

func (r *listingRepoImpl) Create(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepoImpl) FindByID(ctx context.Context, listingID string) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).
		Where("id = ?", listingID).
		First(&listing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &listing, nil
}

func (r *listingRepoImpl) FindByVendor(ctx context.Context, vendorID string) ([]*model.Listing, error) {
	var listings []*model.Listing
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}

	return listings, nil
}

// FindOpen returns buyable or recently sold-out listings whose pickup window
// has not closed yet, active first. Only approved vendors' listings are
// served, so revoking a vendor's approval pulls their stock from public view.
func (r *listingRepoImpl) FindOpen(ctx context.Context, now time.Time, category model.ListingCategory) ([]*model.Listing, error) {
	approved := r.db.Model(&model.Vendor{}).Select("id").Where("is_approved = ?", true)

	q := r.db.WithContext(ctx).
		Where("status IN ?", []model.ListingStatus{model.ListingActive, model.ListingSoldOut}).
		Where("pickup_end > ?", now).
		Where("vendor_id IN (?)", approved)

	if category != "" && category != "All" {
		q = q.Where("category = ?", category)
	}

	var listings []*model.Listing
	err := q.Order("status ASC").Order("created_at DESC").Find(&listings).Error
	if err != nil {
		return nil, err
	}

	return listings, nil
}

func (r *listingRepoImpl) Save(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *listingRepoImpl) Delete(ctx context.Context, listingID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", listingID).
		Delete(&model.Listing{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrListingNotFound
	}

	return nil
}

func (r *listingRepoImpl) DeleteByVendor(ctx context.Context, vendorID string) error {
	return r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Delete(&model.Listing{}).Error
}

// CommitStock decrements remaining stock by qty as a single conditional
// update: the row is only touched when remaining_quantity >= qty, so
// concurrent commits against the last units cannot drive the counter
// negative. A zero-row result means the listing is gone or the stock ran out
// between checkout and payment confirmation; the caller must treat the latter
// as a refund-eligible failure.
func (r *listingRepoImpl) CommitStock(ctx context.Context, tx *gorm.DB, listingID string, qty int) error {
	result := tx.WithContext(ctx).Model(&model.Listing{}).
		Where("id = ? AND remaining_quantity >= ?", listingID, qty).
		Update("remaining_quantity", gorm.Expr("remaining_quantity - ?", qty))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.WithContext(ctx).Model(&model.Listing{}).
			Where("id = ?", listingID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return model.ErrListingNotFound
		}
		return model.ErrInsufficientStock
	}

	// Flip to sold_out the moment the counter reaches zero, without waiting
	// for a sweep.
	return tx.WithContext(ctx).Model(&model.Listing{}).
		Where("id = ? AND remaining_quantity <= 0 AND status = ?", listingID, model.ListingActive).
		Update("status", model.ListingSoldOut).Error
}

// SweepStatuses bulk-corrects stale listing statuses: active listings past
// their pickup window become expired, active listings out of stock become
// sold_out. Used by the background sweeper and as a read-path self-heal.
func (r *listingRepoImpl) SweepStatuses(ctx context.Context, now time.Time) (int64, int64, error) {
	expired := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("status = ? AND pickup_end < ?", model.ListingActive, now).
		Update("status", model.ListingExpired)
	if expired.Error != nil {
		return 0, 0, expired.Error
	}

	soldOut := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("status = ? AND remaining_quantity <= 0", model.ListingActive).
		Update("status", model.ListingSoldOut)
	if soldOut.Error != nil {
		return expired.RowsAffected, 0, soldOut.Error
	}

	return expired.RowsAffected, soldOut.RowsAffected, nil
}
