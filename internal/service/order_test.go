package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"surplus-marketplace/internal/clock"
	"surplus-marketplace/internal/model"

	"gorm.io/gorm"
)

var pickupCodePattern = regexp.MustCompile(`^\d{4}$`)

func newOrderService(t *testing.T) (OrderService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewOrderService(db, &fakeGateway{secret: "test_secret"}, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))
	return svc, db
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending order with price snapshot", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))

		result, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: listing.ID, Quantity: 2},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Order.PaymentStatus != model.PaymentPending {
			t.Fatalf("expected payment status pending, got %s", result.Order.PaymentStatus)
		}
		if want := 2 * listing.DiscountedPrice; result.Order.TotalAmount != want {
			t.Fatalf("expected total %.2f, got %.2f", want, result.Order.TotalAmount)
		}
		if want := int64(1700); result.AmountMinorUnits != want {
			t.Fatalf("expected %d minor units, got %d", want, result.AmountMinorUnits)
		}
		if result.GatewayOrderID == "" {
			t.Fatalf("expected gateway order id to be set")
		}
		if len(result.Order.Items) != 1 || result.Order.Items[0].PriceAtPurchase != listing.DiscountedPrice {
			t.Fatalf("expected one item snapshotted at %.2f", listing.DiscountedPrice)
		}

		// No stock is held at checkout.
		if got := reloadListing(t, db, listing.ID).RemainingQuantity; got != 5 {
			t.Fatalf("expected remaining quantity 5, got %d", got)
		}
	})

	t.Run("checkout consumes the cart", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))
		if err := db.Create(&model.CartItem{
			UserID:    "user-1",
			ListingID: listing.ID,
			Quantity:  2,
		}).Error; err != nil {
			t.Fatalf("seed cart: %v", err)
		}

		if _, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: listing.ID, Quantity: 2},
		}); err != nil {
			t.Fatalf("create: %v", err)
		}

		var count int64
		if err := db.Model(&model.CartItem{}).Where("user_id = ?", "user-1").Count(&count).Error; err != nil {
			t.Fatalf("count cart: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected cart emptied after checkout, got %d entries", count)
		}
	})

	t.Run("empty order", func(t *testing.T) {
		svc, _ := newOrderService(t)

		if _, err := svc.Create(ctx, "user-1", "vendor-1", nil); !errors.Is(err, model.ErrEmptyOrder) {
			t.Fatalf("expected ErrEmptyOrder, got %v", err)
		}
	})

	t.Run("missing listing", func(t *testing.T) {
		svc, _ := newOrderService(t)

		_, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: "nope", Quantity: 1},
		})
		if !errors.Is(err, model.ErrListingNotFound) {
			t.Fatalf("expected ErrListingNotFound, got %v", err)
		}
	})

	t.Run("insufficient stock at checkout", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 1, now.Add(time.Hour))

		_, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: listing.ID, Quantity: 2},
		})
		if !errors.Is(err, model.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
	})

	t.Run("unconfigured gateway", func(t *testing.T) {
		db := newTestDB(t)
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc := NewOrderService(db, nil, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))

		_, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: listing.ID, Quantity: 1},
		})
		if !errors.Is(err, model.ErrPaymentGatewayUnavailable) {
			t.Fatalf("expected ErrPaymentGatewayUnavailable, got %v", err)
		}
	})

	t.Run("gateway registration failure", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret", fail: true}
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))

		_, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: listing.ID, Quantity: 1},
		})
		if !errors.Is(err, model.ErrPaymentGatewayUnavailable) {
			t.Fatalf("expected ErrPaymentGatewayUnavailable, got %v", err)
		}
	})
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid signature settles order and commits inventory", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))
		result, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: listing.ID, Quantity: 2},
		})
		if err != nil {
			t.Fatalf("create order: %v", err)
		}

		sig := gateway.sign(result.GatewayOrderID, "pay_123")
		order, err := svc.ConfirmPayment(ctx, result.Order.ID, "pay_123", result.GatewayOrderID, sig)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if order.PaymentStatus != model.PaymentPaid {
			t.Fatalf("expected payment status paid, got %s", order.PaymentStatus)
		}
		if order.OrderStatus != model.OrderPlaced {
			t.Fatalf("expected order status placed, got %s", order.OrderStatus)
		}
		if !pickupCodePattern.MatchString(order.PickupCode) {
			t.Fatalf("expected 4-digit pickup code, got %q", order.PickupCode)
		}
		if order.QRToken != order.ID {
			t.Fatalf("expected qr token to equal order id")
		}

		got := reloadListing(t, db, listing.ID)
		if got.RemainingQuantity != 3 {
			t.Fatalf("expected remaining quantity 3, got %d", got.RemainingQuantity)
		}
		if got.Status != model.ListingActive {
			t.Fatalf("expected listing to stay active, got %s", got.Status)
		}
	})

	t.Run("invalid signature leaves order untouched", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))
		result, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: listing.ID, Quantity: 2},
		})
		if err != nil {
			t.Fatalf("create order: %v", err)
		}

		_, err = svc.ConfirmPayment(ctx, result.Order.ID, "pay_123", result.GatewayOrderID, "bogus")
		if !errors.Is(err, model.ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}

		order := reloadOrder(t, db, result.Order.ID)
		if order.PaymentStatus != model.PaymentPending {
			t.Fatalf("expected order to stay pending, got %s", order.PaymentStatus)
		}
		if got := reloadListing(t, db, listing.ID).RemainingQuantity; got != 5 {
			t.Fatalf("expected remaining quantity 5, got %d", got)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		sig := gateway.sign("order_x", "pay_x")
		_, err := svc.ConfirmPayment(ctx, "missing", "pay_x", "order_x", sig)
		if !errors.Is(err, model.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("double confirmation does not double-decrement", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))
		result, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: listing.ID, Quantity: 2},
		})
		if err != nil {
			t.Fatalf("create order: %v", err)
		}

		sig := gateway.sign(result.GatewayOrderID, "pay_123")
		first, err := svc.ConfirmPayment(ctx, result.Order.ID, "pay_123", result.GatewayOrderID, sig)
		if err != nil {
			t.Fatalf("first confirm: %v", err)
		}

		second, err := svc.ConfirmPayment(ctx, result.Order.ID, "pay_123", result.GatewayOrderID, sig)
		if err != nil {
			t.Fatalf("second confirm: %v", err)
		}

		if second.PickupCode != first.PickupCode {
			t.Fatalf("expected pickup code to survive a repeated confirm")
		}
		if got := reloadListing(t, db, listing.ID).RemainingQuantity; got != 3 {
			t.Fatalf("expected remaining quantity 3 after double confirm, got %d", got)
		}
	})

	t.Run("commit to zero flips sold_out without a sweep", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 2, now.Add(time.Hour))
		result, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{
			{ListingID: listing.ID, Quantity: 2},
		})
		if err != nil {
			t.Fatalf("create order: %v", err)
		}

		sig := gateway.sign(result.GatewayOrderID, "pay_123")
		if _, err := svc.ConfirmPayment(ctx, result.Order.ID, "pay_123", result.GatewayOrderID, sig); err != nil {
			t.Fatalf("confirm: %v", err)
		}

		got := reloadListing(t, db, listing.ID)
		if got.RemainingQuantity != 0 {
			t.Fatalf("expected remaining quantity 0, got %d", got.RemainingQuantity)
		}
		if got.Status != model.ListingSoldOut {
			t.Fatalf("expected status sold_out, got %s", got.Status)
		}
	})

	t.Run("second buyer of the last unit fails at commit and is refund-eligible", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 1, now.Add(time.Hour))

		// Both checkouts pass the stock check: nothing is held at creation.
		first, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{{ListingID: listing.ID, Quantity: 1}})
		if err != nil {
			t.Fatalf("first create: %v", err)
		}
		second, err := svc.Create(ctx, "user-2", "vendor-1", []*OrderLine{{ListingID: listing.ID, Quantity: 1}})
		if err != nil {
			t.Fatalf("second create: %v", err)
		}

		sig1 := gateway.sign(first.GatewayOrderID, "pay_1")
		if _, err := svc.ConfirmPayment(ctx, first.Order.ID, "pay_1", first.GatewayOrderID, sig1); err != nil {
			t.Fatalf("first confirm: %v", err)
		}

		sig2 := gateway.sign(second.GatewayOrderID, "pay_2")
		_, err = svc.ConfirmPayment(ctx, second.Order.ID, "pay_2", second.GatewayOrderID, sig2)
		if !errors.Is(err, model.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock at commit, got %v", err)
		}

		if got := reloadListing(t, db, listing.ID).RemainingQuantity; got != 0 {
			t.Fatalf("expected remaining quantity 0, got %d", got)
		}

		loser := reloadOrder(t, db, second.Order.ID)
		if loser.PaymentStatus != model.PaymentRefunded {
			t.Fatalf("expected losing order to be refund-eligible, got %s", loser.PaymentStatus)
		}
	})

	t.Run("listing deleted between checkout and confirm", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &fakeGateway{secret: "test_secret"}
		svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))
		result, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{{ListingID: listing.ID, Quantity: 1}})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := db.Where("id = ?", listing.ID).Delete(&model.Listing{}).Error; err != nil {
			t.Fatalf("delete listing: %v", err)
		}

		sig := gateway.sign(result.GatewayOrderID, "pay_1")
		_, err = svc.ConfirmPayment(ctx, result.Order.ID, "pay_1", result.GatewayOrderID, sig)
		if !errors.Is(err, model.ErrListingNotFound) {
			t.Fatalf("expected ErrListingNotFound, got %v", err)
		}
	})
}

func TestOrderService_SimulateConfirmPayment(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db := newTestDB(t)
	gateway := &fakeGateway{secret: "test_secret"}
	svc := NewOrderService(db, gateway, newListingRepo(db), newOrderRepo(db), newUserRepo(db), clock.NewFixed(now))

	listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))
	result, err := svc.Create(ctx, "user-1", "vendor-1", []*OrderLine{{ListingID: listing.ID, Quantity: 2}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	order, err := svc.SimulateConfirmPayment(ctx, result.Order.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.PaymentStatus != model.PaymentPaid {
		t.Fatalf("expected payment status paid, got %s", order.PaymentStatus)
	}
	if !pickupCodePattern.MatchString(order.PickupCode) {
		t.Fatalf("expected 4-digit pickup code, got %q", order.PickupCode)
	}
	if got := reloadListing(t, db, listing.ID).RemainingQuantity; got != 3 {
		t.Fatalf("expected remaining quantity 3, got %d", got)
	}
}
