package handler

import (
	"net/http"

	"surplus-marketplace/internal/dto"
	"surplus-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) RegisterUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.authService.RegisterUser(ctx, &service.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Place:    req.Place,
		District: req.District,
		State:    req.State,
		Image:    req.Image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, authResponse(result, ""))
}

func (h *AuthHandler) RegisterVendor(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterVendorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.authService.RegisterVendor(ctx, &service.RegisterVendorInput{
		Name:          req.Name,
		OwnerName:     req.OwnerName,
		Email:         req.Email,
		Password:      req.Password,
		Phone:         req.Phone,
		Address:       req.Address,
		Place:         req.Place,
		District:      req.District,
		State:         req.State,
		Description:   req.Description,
		LicenseNumber: req.LicenseNumber,
		Image:         req.Image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated,
		authResponse(result, "Vendor registered successfully. Please wait for admin approval."))
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, authResponse(result, ""))
}

func authResponse(result *service.AuthResult, message string) *dto.AuthResponse {
	return &dto.AuthResponse{
		ID:         result.ID,
		Name:       result.Name,
		Email:      result.Email,
		Role:       string(result.Role),
		Token:      result.Token,
		IsApproved: result.IsApproved,
		Message:    message,
	}
}
