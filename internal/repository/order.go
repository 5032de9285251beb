package repository

import (
	"context"
	"errors"
	"time"

	"surplus-marketplace/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Order, error)
	FindByVendor(ctx context.Context, vendorID string) ([]*model.Order, error)
	GetItems(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.OrderItem, error)

	MarkPaid(ctx context.Context, tx *gorm.DB, orderID, paymentID, pickupCode string) (bool, error)
	MarkCollected(ctx context.Context, orderID string) (bool, error)
	CollectByCode(ctx context.Context, vendorID, pickupCode string) (*model.Order, error)
	MarkRefundEligible(ctx context.Context, orderID string) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Listing").
		Preload("Vendor").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) FindByVendor(ctx context.Context, vendorID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Listing").
		Preload("User").
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) GetItems(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// MarkPaid performs the pending->paid transition as a conditional update and
// assigns the pickup credentials in the same statement. The qr token is the
// order's own id. Returns false when the order exists but is no longer
// pending, which makes a repeated payment confirmation a no-op instead of a
// second inventory decrement.
func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, orderID, paymentID, pickupCode string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, model.PaymentPending).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentPaid,
			"order_status":   model.OrderPlaced,
			"payment_id":     paymentID,
			"pickup_code":    pickupCode,
			"qr_token":       orderID,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, model.ErrOrderNotFound
	}

	return false, nil
}

// MarkCollected flips placed->collected only while the order is paid and not
// yet collected, so a double collection cannot apply twice.
func (r *orderRepoImpl) MarkCollected(ctx context.Context, orderID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND order_status = ? AND payment_status = ?",
			orderID, model.OrderPlaced, model.PaymentPaid).
		Updates(map[string]interface{}{
			"order_status": model.OrderCollected,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// CollectByCode is the code-channel lookup and transition, scoped to
// (code, vendor, placed, paid). Codes are not unique, so the lookup resolves
// exactly one matching order and the transition is a conditional update on
// that order's id; a colliding code on another open order is left alone. Any
// miss is the merged ErrInvalidCodeOrCollected: the caller learns nothing
// about whether the code was wrong or the order was already collected.
func (r *orderRepoImpl) CollectByCode(ctx context.Context, vendorID, pickupCode string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("pickup_code = ? AND vendor_id = ? AND order_status = ? AND payment_status = ?",
			pickupCode, vendorID, model.OrderPlaced, model.PaymentPaid).
		Order("created_at ASC").
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrInvalidCodeOrCollected
	}
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND order_status = ? AND payment_status = ?",
			order.ID, model.OrderPlaced, model.PaymentPaid).
		Updates(map[string]interface{}{
			"order_status": model.OrderCollected,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost a race with a concurrent collection of the same order.
		return nil, model.ErrInvalidCodeOrCollected
	}

	return r.FindByID(ctx, order.ID)
}

// MarkRefundEligible flags a paid-for order whose inventory commit failed;
// the money was captured but nothing can be handed over.
func (r *orderRepoImpl) MarkRefundEligible(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, model.PaymentPending).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentRefunded,
			"updated_at":     time.Now(),
		}).Error
}
