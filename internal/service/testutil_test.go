package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"surplus-marketplace/internal/client"
	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := client.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// fakeGateway implements client.PaymentClient with a known secret so tests
// can forge valid and invalid signatures.
type fakeGateway struct {
	secret    string
	fail      bool
	registers int
}

func (f *fakeGateway) RegisterOrder(_ context.Context, _ int64, _, _ string) (string, error) {
	if f.fail {
		return "", errors.New("gateway down")
	}
	f.registers++
	return fmt.Sprintf("order_test_%d", f.registers), nil
}

func (f *fakeGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return client.SignPayment(f.secret, gatewayOrderID, gatewayPaymentID) == signature
}

func (f *fakeGateway) KeyID() string {
	return "rzp_test_key"
}

func (f *fakeGateway) sign(gatewayOrderID, gatewayPaymentID string) string {
	return client.SignPayment(f.secret, gatewayOrderID, gatewayPaymentID)
}

// seedListing backfills an approved vendor for vendorID unless one was
// already seeded, so the listing is browsable by default.
func seedListing(t *testing.T, db *gorm.DB, vendorID string, remaining int, pickupEnd time.Time) *model.Listing {
	t.Helper()

	vendor := &model.Vendor{
		ID:         vendorID,
		Name:       "Corner Kitchen",
		OwnerName:  "Ravi",
		Email:      vendorID + "@example.com",
		Password:   "hashed",
		Address:    "12 Market Lane",
		IsApproved: true,
	}
	if err := db.Where(&model.Vendor{ID: vendorID}).FirstOrCreate(vendor).Error; err != nil {
		t.Fatalf("seed vendor for listing: %v", err)
	}

	listing := &model.Listing{
		ID:                uuid.NewString(),
		VendorID:          vendorID,
		Title:             "Mystery Bag",
		Category:          model.CategoryMeals,
		OriginalPrice:     20,
		DiscountedPrice:   8.5,
		Quantity:          remaining,
		RemainingQuantity: remaining,
		PickupStart:       pickupEnd.Add(-2 * time.Hour),
		PickupEnd:         pickupEnd,
		Status:            model.ListingActive,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("seed listing: %v", err)
	}

	return listing
}

func reloadListing(t *testing.T, db *gorm.DB, listingID string) *model.Listing {
	t.Helper()

	var listing model.Listing
	if err := db.Where("id = ?", listingID).First(&listing).Error; err != nil {
		t.Fatalf("reload listing: %v", err)
	}

	return &listing
}

func reloadOrder(t *testing.T, db *gorm.DB, orderID string) *model.Order {
	t.Helper()

	var order model.Order
	if err := db.Preload("Items").Where("id = ?", orderID).First(&order).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}

	return &order
}

func newListingRepo(db *gorm.DB) repository.ListingRepository {
	return repository.NewListingRepository(db)
}

func newOrderRepo(db *gorm.DB) repository.OrderRepository {
	return repository.NewOrderRepository(db)
}

func newUserRepo(db *gorm.DB) repository.UserRepository {
	return repository.NewUserRepository(db)
}
