package model

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID       string `gorm:"primaryKey;size:64;not null" json:"_id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:128;not null" json:"-"`
	Phone    string `gorm:"size:32" json:"phone"`
	Place    string `gorm:"size:128" json:"place,omitempty"`
	District string `gorm:"size:128" json:"district,omitempty"`
	State    string `gorm:"size:128" json:"state,omitempty"`
	Image    string `json:"image,omitempty"`
	Role     Role   `gorm:"size:16;not null;default:user" json:"role"`
	// IsBlocked accounts keep their records but fail authentication.
	IsBlocked bool      `gorm:"not null;default:false" json:"isBlocked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

type Vendor struct {
	ID            string  `gorm:"primaryKey;size:64;not null" json:"_id"`
	Name          string  `gorm:"size:255;not null" json:"name"` // business name
	OwnerName     string  `gorm:"size:255;not null" json:"ownerName"`
	Email         string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password      string  `gorm:"size:128;not null" json:"-"`
	Phone         string  `gorm:"size:32" json:"phone"`
	Address       string  `gorm:"not null" json:"address"`
	Place         string  `gorm:"size:128" json:"place,omitempty"`
	District      string  `gorm:"size:128" json:"district,omitempty"`
	State         string  `gorm:"size:128" json:"state,omitempty"`
	Description   string  `json:"description,omitempty"`
	LicenseNumber string  `gorm:"size:64" json:"licenseNumber,omitempty"`
	IsApproved    bool    `gorm:"not null;default:false" json:"isApproved"`
	Rating        float64 `gorm:"not null;default:0" json:"rating"`
	Image         string  `json:"image,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// CartItem is one entry of a buyer's cart, pointing at a live listing.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:64;index;not null" json:"-"`
	ListingID string    `gorm:"size:64;index;not null" json:"listingId"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"-"`

	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}

// Identity is the caller resolved once at authentication time: the token is
// parsed, the role-specific record is loaded, and handlers only ever see this
// value. No handler does a trial-and-error lookup across user and vendor
// tables.
type Identity struct {
	ID   string
	Role Role

	User   *User
	Vendor *Vendor
}
