package repository

import (
	"context"
	"errors"

	"surplus-marketplace/internal/model"

	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *model.Vendor) error
	FindByID(ctx context.Context, vendorID string) (*model.Vendor, error)
	FindByEmail(ctx context.Context, email string) (*model.Vendor, error)
	FindAll(ctx context.Context) ([]*model.Vendor, error)
	FindPending(ctx context.Context) ([]*model.Vendor, error)
	Save(ctx context.Context, vendor *model.Vendor) error
	Delete(ctx context.Context, vendorID string) error
}

type vendorRepoImpl struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepoImpl{
		db: db,
	}
}

func (r *vendorRepoImpl) Create(ctx context.Context, vendor *model.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *vendorRepoImpl) FindByID(ctx context.Context, vendorID string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.WithContext(ctx).
		Where("id = ?", vendorID).
		First(&vendor).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}

	return &vendor, nil
}

func (r *vendorRepoImpl) FindByEmail(ctx context.Context, email string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&vendor).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}

	return &vendor, nil
}

func (r *vendorRepoImpl) FindAll(ctx context.Context) ([]*model.Vendor, error) {
	var vendors []*model.Vendor
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}

	return vendors, nil
}

func (r *vendorRepoImpl) FindPending(ctx context.Context) ([]*model.Vendor, error) {
	var vendors []*model.Vendor
	err := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}

	return vendors, nil
}

func (r *vendorRepoImpl) Save(ctx context.Context, vendor *model.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

func (r *vendorRepoImpl) Delete(ctx context.Context, vendorID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", vendorID).
		Delete(&model.Vendor{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrVendorNotFound
	}

	return nil
}
