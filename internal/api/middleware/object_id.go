package middleware

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vidly/rental-system/internal/core/domain"
)

// ObjectID rejects requests whose path parameter is not a 24-hex ObjectID
// with a not-found error, before any store lookup.
func ObjectID(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !primitive.IsValidObjectID(c.Param(param)) {
				return domain.ErrInvalidID
			}
			return next(c)
		}
	}
}
