package service

import (
	"context"

	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/repository"
)

// PickupService verifies in-person collection attempts. Both channels end in
// orderStatus=collected and both are scoped to the vendor that owns the
// order: the token channel checks ownership explicitly, the code channel
// enforces it through the lookup filter.
type PickupService interface {
	CollectByToken(ctx context.Context, vendorID, qrToken string) (*model.Order, error)
	CollectByCode(ctx context.Context, vendorID, pickupCode string) (*model.Order, error)
}

type pickupServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewPickupService(orderRepo repository.OrderRepository) PickupService {
	return &pickupServiceImpl{
		orderRepo: orderRepo,
	}
}

// CollectByToken resolves the scanned qr token (the order id) and marks the
// order collected after ownership and state checks.
func (s *pickupServiceImpl) CollectByToken(ctx context.Context, vendorID, qrToken string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, qrToken)
	if err != nil {
		return nil, err
	}

	if order.VendorID != vendorID {
		return nil, model.ErrNotOwner
	}
	if order.OrderStatus == model.OrderCollected {
		return nil, model.ErrAlreadyCollected
	}
	if order.PaymentStatus != model.PaymentPaid {
		return nil, model.ErrNotPaid
	}

	collected, err := s.orderRepo.MarkCollected(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if !collected {
		// Lost a race with a concurrent collection.
		return nil, model.ErrAlreadyCollected
	}

	return s.orderRepo.FindByID(ctx, order.ID)
}

// CollectByCode looks up the code scoped to (vendor, placed, paid). Any miss
// surfaces the single merged error so the caller cannot distinguish a wrong
// code from an already collected order.
func (s *pickupServiceImpl) CollectByCode(ctx context.Context, vendorID, pickupCode string) (*model.Order, error) {
	return s.orderRepo.CollectByCode(ctx, vendorID, pickupCode)
}
