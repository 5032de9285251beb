package middleware

import (
	"net/http"
	"strings"

	"surplus-marketplace/internal/auth"
	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/repository"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Protect parses the bearer token and resolves the caller to a typed
// Identity exactly once: the role in the claims decides which table is
// consulted, and handlers downstream never guess between user and vendor
// records.
func Protect(jwtSecret string, users repository.UserRepository, vendors repository.VendorRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no token")
			}

			claims, err := auth.ParseToken(jwtSecret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
			}

			ctx := c.Request().Context()
			ident := &model.Identity{ID: claims.Subject, Role: claims.Role}

			switch claims.Role {
			case model.RoleVendor:
				vendor, err := vendors.FindByID(ctx, claims.Subject)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, account not found")
				}
				ident.Vendor = vendor
			default:
				user, err := users.FindByID(ctx, claims.Subject)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, account not found")
				}
				if user.IsBlocked {
					return echo.NewHTTPError(http.StatusForbidden, model.ErrAccountBlocked.Error())
				}
				ident.User = user
			}

			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// RequireVendor rejects callers that did not authenticate as a vendor.
func RequireVendor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if IdentityFrom(c).Role != model.RoleVendor {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized as a vendor")
		}
		return next(c)
	}
}

// RequireAdmin rejects callers that did not authenticate as an admin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if IdentityFrom(c).Role != model.RoleAdmin {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized as an admin")
		}
		return next(c)
	}
}

// IdentityFrom returns the identity Protect stashed on the request.
func IdentityFrom(c echo.Context) *model.Identity {
	ident, _ := c.Get(identityKey).(*model.Identity)
	if ident == nil {
		return &model.Identity{}
	}
	return ident
}
