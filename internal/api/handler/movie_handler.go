package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/core/ports"
)

type MovieHandler struct {
	service ports.MovieService
}

func NewMovieHandler(service ports.MovieService) *MovieHandler {
	return &MovieHandler{service: service}
}

// List returns movies ordered by title.
//
// @Summary      List movies
// @Tags         movies
// @Produce      json
// @Param        genreId  query     string  false  "Only movies of this genre"
// @Success      200      {array}   domain.Movie
// @Router       /api/movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.service.List(c.Request().Context(), ports.MovieFilter{GenreID: c.QueryParam("genreId")})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

// Get returns one movie.
//
// @Summary      Get a movie
// @Tags         movies
// @Produce      json
// @Param        id   path      string  true  "Movie ObjectID"
// @Success      200  {object}  domain.Movie
// @Failure      404  {object}  map[string]string
// @Router       /api/movies/{id} [get]
func (h *MovieHandler) Get(c echo.Context) error {
	movie, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movie)
}

// Create adds a movie under an existing genre.
//
// @Summary      Create a movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        body  body      movieRequest  true  "Movie"
// @Success      200   {object}  domain.Movie
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	movie, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movie)
}

// Update replaces a movie's fields.
//
// @Summary      Update a movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        id    path      string        true  "Movie ObjectID"
// @Param        body  body      movieRequest  true  "Movie"
// @Success      200   {object}  domain.Movie
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/movies/{id} [put]
func (h *MovieHandler) Update(c echo.Context) error {
	var req movieRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	movie, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movie)
}

// Delete removes a movie and returns it.
//
// @Summary      Delete a movie
// @Tags         movies
// @Produce      json
// @Security     AuthToken
// @Param        id   path      string  true  "Movie ObjectID"
// @Success      200  {object}  domain.Movie
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/movies/{id} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	movie, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movie)
}
