package handler

import (
	"net/http"

	"surplus-marketplace/internal/dto"
	"surplus-marketplace/internal/middleware"
	"surplus-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type VendorHandler struct {
	orderService   service.OrderService
	pickupService  service.PickupService
	listingService service.ListingService
}

func NewVendorHandler(
	orderService service.OrderService,
	pickupService service.PickupService,
	listingService service.ListingService,
) *VendorHandler {
	return &VendorHandler{
		orderService:   orderService,
		pickupService:  pickupService,
		listingService: listingService,
	}
}

func (h *VendorHandler) Profile(c echo.Context) error {
	ident := middleware.IdentityFrom(c)
	if ident.Vendor == nil {
		return echo.NewHTTPError(http.StatusNotFound, "vendor not found")
	}

	return c.JSON(http.StatusOK, ident.Vendor)
}

func (h *VendorHandler) Listings(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	listings, err := h.listingService.ListForVendor(ctx, ident.ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, listings)
}

func (h *VendorHandler) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	orders, err := h.orderService.ListForVendor(ctx, ident.ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

// ScanQR is the token channel: the scanned payload is the order id.
func (h *VendorHandler) ScanQR(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	var req dto.ScanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.pickupService.CollectByToken(ctx, ident.ID, req.QRCodeData)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.MessageResponse{
		Message: "Order collected successfully",
		Order:   order,
	})
}

// VerifyCode is the code channel: a 4-digit pickup code read out in person.
func (h *VendorHandler) VerifyCode(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	var req dto.VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.pickupService.CollectByCode(ctx, ident.ID, req.PickupCode)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.MessageResponse{
		Message: "Order verified and collected successfully",
		Order:   order,
	})
}
