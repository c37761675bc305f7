package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/core/ports"
)

// ReturnHandler closes rentals.
type ReturnHandler struct {
	service ports.ReturnService
}

func NewReturnHandler(service ports.ReturnService) *ReturnHandler {
	return &ReturnHandler{service: service}
}

// Return closes the open rental of a customer/movie pair, bills it and puts
// the copy back in stock. The body is validated before anything is read from
// the store.
//
// @Summary      Return a rented movie
// @Tags         returns
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        body  body      rentalRequest  true  "Customer and movie"
// @Success      200   {object}  domain.Rental
// @Failure      400   {object}  map[string]string  "invalid body or return already processed"
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string  "no rental for this customer/movie"
// @Router       /api/returns [post]
func (h *ReturnHandler) Return(c echo.Context) error {
	var req rentalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rental, err := h.service.Return(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rental)
}
