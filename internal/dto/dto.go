package dto

import "time"

type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Place    string `json:"place"`
	District string `json:"district"`
	State    string `json:"state"`
	Image    string `json:"image"`
}

type RegisterVendorRequest struct {
	Name          string `json:"name"`
	OwnerName     string `json:"ownerName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Place         string `json:"place"`
	District      string `json:"district"`
	State         string `json:"state"`
	Description   string `json:"description"`
	LicenseNumber string `json:"licenseNumber"`
	Image         string `json:"image"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Token      string `json:"token"`
	IsApproved bool   `json:"isApproved"`
	Message    string `json:"message,omitempty"`
}

type ListingRequest struct {
	Title           string    `json:"title" form:"title"`
	Description     string    `json:"description" form:"description"`
	Category        string    `json:"category" form:"category"`
	OriginalPrice   float64   `json:"originalPrice" form:"originalPrice"`
	DiscountedPrice float64   `json:"discountedPrice" form:"discountedPrice"`
	Quantity        int       `json:"quantity" form:"quantity"`
	PickupStart     time.Time `json:"pickupStart" form:"pickupStart"`
	PickupEnd       time.Time `json:"pickupEnd" form:"pickupEnd"`
}

type OrderItemRequest struct {
	ListingID string `json:"listingId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	VendorID string              `json:"vendorId"`
	Items    []*OrderItemRequest `json:"items"`
}

type CreateOrderResponse struct {
	Order           interface{} `json:"order"`
	RazorpayOrderID string      `json:"razorpayOrderId"`
	Amount          int64       `json:"amount"`
	Key             string      `json:"key"`
}

type VerifyPaymentRequest struct {
	OrderID           string `json:"orderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpaySignature string `json:"razorpaySignature"`
}

type ScanRequest struct {
	QRCodeData string `json:"qrCodeData"`
}

type VerifyCodeRequest struct {
	PickupCode string `json:"pickupCode"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

type CartRequest struct {
	ListingID string `json:"listingId"`
	Quantity  int    `json:"quantity"`
}

type MessageResponse struct {
	Message string      `json:"message"`
	Order   interface{} `json:"order,omitempty"`
}
