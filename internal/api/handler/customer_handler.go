package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/core/ports"
)

type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     AuthToken
// @Success      200  {array}   domain.Customer
// @Failure      401  {object}  map[string]string
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     AuthToken
// @Param        id   path      string  true  "Customer ObjectID"
// @Success      200  {object}  domain.Customer
// @Failure      404  {object}  map[string]string
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	customer, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        body  body      customerRequest  true  "Customer"
// @Success      200   {object}  domain.Customer
// @Failure      400   {object}  map[string]string
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	customer, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        id    path      string           true  "Customer ObjectID"
// @Param        body  body      customerRequest  true  "Customer"
// @Success      200   {object}  domain.Customer
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	var req customerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	customer, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// @Summary      Delete a customer
// @Tags         customers
// @Produce      json
// @Security     AuthToken
// @Param        id   path      string  true  "Customer ObjectID"
// @Success      200  {object}  domain.Customer
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	customer, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}
