package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/core/ports"
)

// GenreHandler handles HTTP requests for genres.
type GenreHandler struct {
	service ports.GenreService
}

func NewGenreHandler(service ports.GenreService) *GenreHandler {
	return &GenreHandler{service: service}
}

// List returns every genre ordered by name.
//
// @Summary      List genres
// @Tags         genres
// @Produce      json
// @Success      200  {array}   domain.Genre
// @Router       /api/genres [get]
func (h *GenreHandler) List(c echo.Context) error {
	genres, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genres)
}

// Get returns one genre.
//
// @Summary      Get a genre
// @Tags         genres
// @Produce      json
// @Param        id   path      string  true  "Genre ObjectID"
// @Success      200  {object}  domain.Genre
// @Failure      404  {object}  map[string]string
// @Router       /api/genres/{id} [get]
func (h *GenreHandler) Get(c echo.Context) error {
	genre, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genre)
}

// Create adds a genre. Names are unique.
//
// @Summary      Create a genre
// @Tags         genres
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        body  body      genreRequest  true  "Genre"
// @Success      200   {object}  domain.Genre
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/genres [post]
func (h *GenreHandler) Create(c echo.Context) error {
	var req genreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	genre, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genre)
}

// Update renames a genre.
//
// @Summary      Update a genre
// @Tags         genres
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        id    path      string        true  "Genre ObjectID"
// @Param        body  body      genreRequest  true  "Genre"
// @Success      200   {object}  domain.Genre
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/genres/{id} [put]
func (h *GenreHandler) Update(c echo.Context) error {
	var req genreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	genre, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genre)
}

// Delete removes a genre and returns it.
//
// @Summary      Delete a genre
// @Tags         genres
// @Produce      json
// @Security     AuthToken
// @Param        id   path      string  true  "Genre ObjectID"
// @Success      200  {object}  domain.Genre
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/genres/{id} [delete]
func (h *GenreHandler) Delete(c echo.Context) error {
	genre, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genre)
}
