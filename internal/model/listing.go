package model

import "time"

type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingSoldOut ListingStatus = "sold_out"
	ListingExpired ListingStatus = "expired"
)

type ListingCategory string

const (
	CategoryMeals  ListingCategory = "Meals"
	CategoryBakery ListingCategory = "Bakery"
	CategoryBoth   ListingCategory = "Both"
)

// Listing is a vendor-posted surplus-food bundle with finite stock and a
// pickup window. RemainingQuantity is the hot counter: it is only ever
// decremented through a conditional update (see repository.ListingRepository)
// so it can never go below zero under concurrent checkouts.
type Listing struct {
	ID              string          `gorm:"primaryKey;size:64;not null" json:"_id"`
	VendorID        string          `gorm:"size:64;index;not null" json:"vendor"`
	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     string          `json:"description"`
	Category        ListingCategory `gorm:"size:16;index;not null;default:Meals" json:"category"`
	OriginalPrice   float64         `gorm:"not null" json:"originalPrice"`
	DiscountedPrice float64         `gorm:"not null" json:"discountedPrice"`
	// Quantity is the total number of bundles issued; RemainingQuantity
	// counts down from it as payments are confirmed.
	Quantity          int           `gorm:"not null" json:"quantity"`
	RemainingQuantity int           `gorm:"not null" json:"remainingQuantity"`
	PickupStart       time.Time     `gorm:"not null" json:"pickupStart"`
	PickupEnd         time.Time     `gorm:"index;not null" json:"pickupEnd"`
	Image             string        `json:"image"`
	Status            ListingStatus `gorm:"size:16;index;not null;default:active" json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"-"`
}
