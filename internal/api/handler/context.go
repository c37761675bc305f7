package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/api/middleware"
	"github.com/vidly/rental-system/internal/core/domain"
)

// ctxUserID returns the caller id injected by the Auth middleware. An empty
// value means the middleware did not run on this route.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}
