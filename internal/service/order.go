package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"

	"surplus-marketplace/internal/client"
	"surplus-marketplace/internal/clock"
	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const gatewayCurrency = "INR"

type OrderService interface {
	Create(ctx context.Context, userID, vendorID string, items []*OrderLine) (*CheckoutResult, error)
	ConfirmPayment(ctx context.Context, orderID, gatewayPaymentID, gatewayOrderID, signature string) (*model.Order, error)
	SimulateConfirmPayment(ctx context.Context, orderID string) (*model.Order, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Order, error)
	ListForVendor(ctx context.Context, vendorID string) ([]*model.Order, error)
}

type OrderLine struct {
	ListingID string
	Quantity  int
}

// CheckoutResult is what the buyer's checkout widget needs to complete the
// payment against the gateway.
type CheckoutResult struct {
	Order            *model.Order
	GatewayOrderID   string
	AmountMinorUnits int64
	GatewayKeyID     string
}

type orderServiceImpl struct {
	db            *gorm.DB
	paymentClient client.PaymentClient
	listingRepo   repository.ListingRepository
	orderRepo     repository.OrderRepository
	userRepo      repository.UserRepository
	clock         clock.Clock
}

func NewOrderService(
	db *gorm.DB,
	paymentClient client.PaymentClient,
	listingRepo repository.ListingRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	clk clock.Clock,
) OrderService {
	return &orderServiceImpl{
		db:            db,
		paymentClient: paymentClient,
		listingRepo:   listingRepo,
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		clock:         clk,
	}
}

// Create validates stock and prices, registers a gateway order for the total,
// and persists the order as pending. Stock is only checked here, never held:
// the authoritative decrement happens at payment confirmation, where
// CommitStock re-validates the remaining quantity.
func (s *orderServiceImpl) Create(ctx context.Context, userID, vendorID string, items []*OrderLine) (*CheckoutResult, error) {
	if len(items) == 0 {
		return nil, model.ErrEmptyOrder
	}

	totalAmount := 0.0
	orderItems := make([]model.OrderItem, 0, len(items))

	for _, line := range items {
		if line.Quantity <= 0 {
			return nil, model.ErrInvalidQuantity
		}

		listing, err := s.listingRepo.FindByID(ctx, line.ListingID)
		if err != nil {
			return nil, err
		}
		if listing.RemainingQuantity < line.Quantity {
			return nil, model.ErrInsufficientStock
		}

		totalAmount += listing.DiscountedPrice * float64(line.Quantity)
		orderItems = append(orderItems, model.OrderItem{
			ListingID:       listing.ID,
			Quantity:        line.Quantity,
			PriceAtPurchase: listing.DiscountedPrice,
		})
	}

	if s.paymentClient == nil {
		return nil, model.ErrPaymentGatewayUnavailable
	}

	// The gateway works in minor currency units; the persisted amount stays
	// in the stored numeric form.
	amountMinor := int64(math.Round(totalAmount * 100))
	receipt := fmt.Sprintf("receipt_%d", s.clock.Now().UnixMilli())

	gatewayOrderID, err := s.paymentClient.RegisterOrder(ctx, amountMinor, gatewayCurrency, receipt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPaymentGatewayUnavailable, err)
	}

	order := &model.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		VendorID:       vendorID,
		Items:          orderItems,
		TotalAmount:    totalAmount,
		GatewayOrderID: gatewayOrderID,
		PaymentStatus:  model.PaymentPending,
		OrderStatus:    model.OrderPlaced,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("store order in db: %w", err)
	}

	// Checkout consumes the cart; a failure here never voids the order.
	if err := s.userRepo.ClearCart(ctx, userID); err != nil {
		log.Println("clear cart after checkout:", err)
	}

	return &CheckoutResult{
		Order:            order,
		GatewayOrderID:   gatewayOrderID,
		AmountMinorUnits: amountMinor,
		GatewayKeyID:     s.paymentClient.KeyID(),
	}, nil
}

// ConfirmPayment verifies the gateway's HMAC signature, then settles the
// order: the pending->paid transition, pickup credential assignment, and the
// per-item inventory commit happen in one transaction. A mismatched signature
// leaves the order untouched.
func (s *orderServiceImpl) ConfirmPayment(ctx context.Context, orderID, gatewayPaymentID, gatewayOrderID, signature string) (*model.Order, error) {
	if s.paymentClient == nil {
		return nil, model.ErrPaymentGatewayUnavailable
	}
	if !s.paymentClient.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		return nil, model.ErrInvalidSignature
	}

	return s.settle(ctx, orderID, gatewayPaymentID)
}

// SimulateConfirmPayment is the dev-mode bypass: same post-conditions as
// ConfirmPayment, no signature check.
func (s *orderServiceImpl) SimulateConfirmPayment(ctx context.Context, orderID string) (*model.Order, error) {
	paymentID := fmt.Sprintf("fake_pay_%d", s.clock.Now().UnixMilli())
	return s.settle(ctx, orderID, paymentID)
}

func (s *orderServiceImpl) settle(ctx context.Context, orderID, paymentID string) (*model.Order, error) {
	pickupCode := newPickupCode()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := s.orderRepo.MarkPaid(ctx, tx, orderID, paymentID, pickupCode)
		if err != nil {
			return err
		}
		if !updated {
			// Already settled; repeating the confirmation must not decrement
			// inventory again.
			return nil
		}

		items, err := s.orderRepo.GetItems(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("get order items: %w", err)
		}

		for _, item := range items {
			if err := s.listingRepo.CommitStock(ctx, tx, item.ListingID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})

	if errors.Is(err, model.ErrInsufficientStock) || errors.Is(err, model.ErrListingNotFound) {
		// The payment was captured but the stock is gone (or the listing was
		// deleted between checkout and confirmation). The transaction rolled
		// back, so flag the order refund-eligible and surface the failure.
		if markErr := s.orderRepo.MarkRefundEligible(ctx, orderID); markErr != nil {
			return nil, fmt.Errorf("mark order refund-eligible: %v: %w", markErr, err)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, orderID)
}

func (s *orderServiceImpl) ListForUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}

func (s *orderServiceImpl) ListForVendor(ctx context.Context, vendorID string) ([]*model.Order, error) {
	return s.orderRepo.FindByVendor(ctx, vendorID)
}

// newPickupCode draws a 4-digit code. Codes are not globally unique; the
// code-channel lookup is scoped to the vendor and the order's live state.
func newPickupCode() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}
