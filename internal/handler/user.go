package handler

import (
	"net/http"

	"surplus-marketplace/internal/dto"
	"surplus-marketplace/internal/middleware"
	"surplus-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	user, err := h.userService.GetProfile(ctx, ident.ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.userService.UpdateProfile(ctx, ident.ID, &service.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Image:    req.Image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	if err := h.userService.DeleteAccount(ctx, ident.ID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.MessageResponse{Message: "Account permanently deleted"})
}

func (h *UserHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	cart, err := h.userService.GetCart(ctx, ident.ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *UserHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	var req dto.CartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.userService.AddToCart(ctx, ident.ID, req.ListingID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *UserHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	cart, err := h.userService.RemoveFromCart(ctx, ident.ID, c.Param("listingId"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cart)
}
