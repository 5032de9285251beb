package model

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderCollected OrderStatus = "collected"
	OrderCancelled OrderStatus = "cancelled"
)

// Order tracks a purchase from checkout through payment and pickup.
//
// Valid transitions: pending/placed -> paid/placed -> paid/collected.
// Every transition is a conditional update on the current status, so a
// double payment confirmation or a double collection cannot apply twice.
// cancelled and refunded are terminal values set out-of-band (refunded is
// also set when an inventory commit fails after a captured payment).
type Order struct {
	ID       string `gorm:"primaryKey;size:64;not null" json:"_id"`
	UserID   string `gorm:"size:64;index;not null" json:"user"`
	VendorID string `gorm:"size:64;index;not null" json:"vendor"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	TotalAmount float64 `gorm:"not null" json:"totalAmount"`

	// GatewayOrderID is the payment gateway's order reference registered at
	// checkout; PaymentID is the gateway payment id captured on verification.
	GatewayOrderID string        `gorm:"size:64;index" json:"-"`
	PaymentID      string        `gorm:"size:64" json:"paymentId,omitempty"`
	PaymentStatus  PaymentStatus `gorm:"size:16;index;not null;default:pending" json:"paymentStatus"`
	OrderStatus    OrderStatus   `gorm:"size:16;index;not null;default:placed" json:"orderStatus"`

	// PickupCode is exactly 4 ASCII digits, assigned on payment confirmation.
	// QRToken is the order's own id, used as the scannable payload.
	PickupCode string `gorm:"size:8;index" json:"pickupCode,omitempty"`
	QRToken    string `gorm:"size:64" json:"qrCodeData,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	User   *User   `gorm:"foreignKey:UserID" json:"userInfo,omitempty"`
	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendorInfo,omitempty"`
}

// OrderItem is an immutable snapshot of one ordered line. PriceAtPurchase is
// captured at checkout so later listing price edits never affect past orders.
type OrderItem struct {
	ID              uint    `gorm:"primaryKey" json:"-"`
	OrderID         string  `gorm:"size:64;index;not null" json:"-"`
	ListingID       string  `gorm:"size:64;index;not null" json:"listing"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	PriceAtPurchase float64 `gorm:"not null" json:"priceAtPurchase"`

	Listing *Listing `gorm:"foreignKey:ListingID" json:"listingInfo,omitempty"`
}
