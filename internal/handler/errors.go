package handler

import (
	"errors"
	"net/http"

	"surplus-marketplace/internal/model"

	"github.com/labstack/echo/v4"
)

// httpError maps service sentinel errors onto HTTP status codes; anything
// unrecognized surfaces as a 500 through echo's default handling.
func httpError(err error) error {
	switch {
	case errors.Is(err, model.ErrListingNotFound),
		errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrVendorNotFound),
		errors.Is(err, model.ErrInvalidCodeOrCollected):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, model.ErrEmptyOrder),
		errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrInvalidSignature),
		errors.Is(err, model.ErrAlreadyCollected),
		errors.Is(err, model.ErrNotPaid),
		errors.Is(err, model.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, model.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())

	case errors.Is(err, model.ErrNotOwner),
		errors.Is(err, model.ErrAccountBlocked):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())

	case errors.Is(err, model.ErrPaymentGatewayUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}

	return err
}
