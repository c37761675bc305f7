package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/core/ports"
)

// RentalHandler handles checkout and the rental records.
type RentalHandler struct {
	service ports.RentalService
}

func NewRentalHandler(service ports.RentalService) *RentalHandler {
	return &RentalHandler{service: service}
}

// List returns rentals, most recent checkout first.
//
// @Summary      List rentals
// @Tags         rentals
// @Produce      json
// @Security     AuthToken
// @Param        customerId  query     string  false  "Only rentals of this customer"
// @Param        open        query     bool    false  "Only rentals not yet returned"
// @Success      200         {array}   domain.Rental
// @Failure      401         {object}  map[string]string
// @Router       /api/rentals [get]
func (h *RentalHandler) List(c echo.Context) error {
	openOnly, _ := strconv.ParseBool(c.QueryParam("open"))
	filter := ports.RentalFilter{CustomerID: c.QueryParam("customerId"), OpenOnly: openOnly}

	rentals, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rentals)
}

// @Summary      Get a rental
// @Tags         rentals
// @Produce      json
// @Security     AuthToken
// @Param        id   path      string  true  "Rental ObjectID"
// @Success      200  {object}  domain.Rental
// @Failure      404  {object}  map[string]string
// @Router       /api/rentals/{id} [get]
func (h *RentalHandler) Get(c echo.Context) error {
	rental, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rental)
}

// Checkout opens a rental and takes one copy of the movie out of stock.
//
// @Summary      Check out a movie
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        body  body      rentalRequest  true  "Customer and movie"
// @Success      200   {object}  domain.Rental
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/rentals [post]
func (h *RentalHandler) Checkout(c echo.Context) error {
	var req rentalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rental, err := h.service.Checkout(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rental)
}

// @Summary      Delete a rental
// @Tags         rentals
// @Produce      json
// @Security     AuthToken
// @Param        id   path      string  true  "Rental ObjectID"
// @Success      200  {object}  domain.Rental
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/rentals/{id} [delete]
func (h *RentalHandler) Delete(c echo.Context) error {
	rental, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rental)
}
