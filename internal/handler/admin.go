package handler

import (
	"fmt"
	"net/http"

	"surplus-marketplace/internal/dto"
	"surplus-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) PendingVendors(c echo.Context) error {
	vendors, err := h.adminService.PendingVendors(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, vendors)
}

func (h *AdminHandler) ToggleVendorApproval(c echo.Context) error {
	vendor, err := h.adminService.ToggleVendorApproval(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	state := "disabled"
	if vendor.IsApproved {
		state = "approved"
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Vendor %s", state),
		"vendor":  vendor,
	})
}

func (h *AdminHandler) ToggleUserBlock(c echo.Context) error {
	user, err := h.adminService.ToggleUserBlock(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	state := "unblocked"
	if user.IsBlocked {
		state = "blocked"
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("User account %s", state),
		"user":    user,
	})
}

func (h *AdminHandler) DeleteVendor(c echo.Context) error {
	if err := h.adminService.DeleteVendor(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.MessageResponse{
		Message: "Restaurant and all associated listings removed permanently",
	})
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) ListVendors(c echo.Context) error {
	vendors, err := h.adminService.ListVendors(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, vendors)
}

func (h *AdminHandler) UserOrders(c echo.Context) error {
	orders, err := h.adminService.UserOrders(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) VendorListings(c echo.Context) error {
	listings, err := h.adminService.VendorListings(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, listings)
}
