package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	user := &model.User{
		ID:       uuid.NewString(),
		Name:     "Asha",
		Email:    uuid.NewString() + "@example.com",
		Password: "$2a$10$000000000000000000000u0000000000000000000000000000000",
		Role:     model.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return user
}

func newUserService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewUserService(repository.NewUserRepository(db), newListingRepo(db)), db
}

func TestUserService_Cart(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("add merges quantities for the same listing", func(t *testing.T) {
		svc, db := newUserService(t)
		user := seedUser(t, db)
		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))

		if _, err := svc.AddToCart(ctx, user.ID, listing.ID, 2); err != nil {
			t.Fatalf("add: %v", err)
		}
		cart, err := svc.AddToCart(ctx, user.ID, listing.ID, 3)
		if err != nil {
			t.Fatalf("second add: %v", err)
		}

		if len(cart) != 1 {
			t.Fatalf("expected one cart entry, got %d", len(cart))
		}
		if cart[0].Quantity != 5 {
			t.Fatalf("expected merged quantity 5, got %d", cart[0].Quantity)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, db := newUserService(t)
		user := seedUser(t, db)
		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))

		if _, err := svc.AddToCart(ctx, user.ID, listing.ID, 0); !errors.Is(err, model.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("rejects unknown listing", func(t *testing.T) {
		svc, db := newUserService(t)
		user := seedUser(t, db)

		if _, err := svc.AddToCart(ctx, user.ID, "missing", 1); !errors.Is(err, model.ErrListingNotFound) {
			t.Fatalf("expected ErrListingNotFound, got %v", err)
		}
	})

	t.Run("remove empties the cart", func(t *testing.T) {
		svc, db := newUserService(t)
		user := seedUser(t, db)
		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))

		if _, err := svc.AddToCart(ctx, user.ID, listing.ID, 2); err != nil {
			t.Fatalf("add: %v", err)
		}
		cart, err := svc.RemoveFromCart(ctx, user.ID, listing.ID)
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		if len(cart) != 0 {
			t.Fatalf("expected empty cart, got %d entries", len(cart))
		}
	})

	t.Run("get drops entries whose listing was deleted", func(t *testing.T) {
		svc, db := newUserService(t)
		user := seedUser(t, db)
		listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))

		if _, err := svc.AddToCart(ctx, user.ID, listing.ID, 2); err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := db.Where("id = ?", listing.ID).Delete(&model.Listing{}).Error; err != nil {
			t.Fatalf("delete listing: %v", err)
		}

		cart, err := svc.GetCart(ctx, user.ID)
		if err != nil {
			t.Fatalf("get cart: %v", err)
		}
		if len(cart) != 0 {
			t.Fatalf("expected orphaned entry filtered out, got %d", len(cart))
		}
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("re-hashes a changed password", func(t *testing.T) {
		svc, db := newUserService(t)
		user := seedUser(t, db)

		updated, err := svc.UpdateProfile(ctx, user.ID, &ProfileUpdate{Password: "newpass1"})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if updated.Password == "newpass1" {
			t.Fatal("password stored in plain text")
		}
		if bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpass1")) != nil {
			t.Fatal("stored hash does not match the new password")
		}
	})

	t.Run("blank fields stay untouched", func(t *testing.T) {
		svc, db := newUserService(t)
		user := seedUser(t, db)

		updated, err := svc.UpdateProfile(ctx, user.ID, &ProfileUpdate{Phone: "555-0101"})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if updated.Phone != "555-0101" {
			t.Fatalf("expected phone updated, got %q", updated.Phone)
		}
		if updated.Name != user.Name || updated.Email != user.Email {
			t.Fatal("unrelated fields changed")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newUserService(t)

		if _, err := svc.UpdateProfile(ctx, "missing", &ProfileUpdate{Name: "x"}); !errors.Is(err, model.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc, db := newUserService(t)
	user := seedUser(t, db)
	listing := seedListing(t, db, "vendor-1", 5, now.Add(time.Hour))

	if _, err := svc.AddToCart(ctx, user.ID, listing.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, err := svc.GetProfile(ctx, user.ID); !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}

	var count int64
	if err := db.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count cart: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cart cleared with the account, got %d entries", count)
	}
}
