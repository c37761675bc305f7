package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/pkg/identity"
)

// HeaderAuthToken carries the identity token on every guarded request.
const HeaderAuthToken = "x-auth-token"

// Context keys set by Auth.
const (
	CtxUserID  = "userId"
	CtxIsAdmin = "isAdmin"
)

// TokenParser verifies a raw token and returns its claims.
type TokenParser interface {
	Parse(raw string) (*identity.Claims, error)
}

// Auth validates the identity token and injects its claims into context.
// No token: 401. A token that fails verification: 400.
func Auth(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderAuthToken)
			if raw == "" {
				return domain.ErrUnauthenticated
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				return domain.ErrInvalidToken
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxIsAdmin, claims.IsAdmin)

			return next(c)
		}
	}
}
