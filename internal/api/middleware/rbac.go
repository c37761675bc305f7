package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/core/domain"
)

// Admin lets through only callers whose token carries isAdmin. It must run
// after Auth.
func Admin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isAdmin, _ := c.Get(CtxIsAdmin).(bool); !isAdmin {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
