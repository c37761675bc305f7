package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

type MovieService struct {
	movies ports.MovieRepository
	genres ports.GenreRepository
	log    zerolog.Logger
}

func NewMovieService(movies ports.MovieRepository, genres ports.GenreRepository, log zerolog.Logger) *MovieService {
	return &MovieService{movies: movies, genres: genres, log: log}
}

func (s *MovieService) List(ctx context.Context, filter ports.MovieFilter) ([]*domain.Movie, error) {
	return s.movies.List(ctx, filter)
}

func (s *MovieService) Get(ctx context.Context, id string) (*domain.Movie, error) {
	return s.movies.FindByID(ctx, id)
}

func (s *MovieService) Create(ctx context.Context, in ports.MovieInput) (*domain.Movie, error) {
	genre, err := s.resolveGenre(ctx, in.GenreID)
	if err != nil {
		return nil, err
	}

	created, err := s.movies.Create(ctx, &domain.Movie{
		Title:           in.Title,
		Genre:           genre.Ref(),
		NumberInStock:   in.NumberInStock,
		DailyRentalRate: in.DailyRentalRate,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("movie_id", created.ID).Str("title", created.Title).Msg("movie created")
	return created, nil
}

// Update replaces the movie's fields. Open rentals keep the rate they were
// created with.
func (s *MovieService) Update(ctx context.Context, id string, in ports.MovieInput) (*domain.Movie, error) {
	genre, err := s.resolveGenre(ctx, in.GenreID)
	if err != nil {
		return nil, err
	}

	updated, err := s.movies.Update(ctx, &domain.Movie{
		ID:              id,
		Title:           in.Title,
		Genre:           genre.Ref(),
		NumberInStock:   in.NumberInStock,
		DailyRentalRate: in.DailyRentalRate,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("movie_id", id).Msg("movie updated")
	return updated, nil
}

func (s *MovieService) Delete(ctx context.Context, id string) (*domain.Movie, error) {
	deleted, err := s.movies.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("movie_id", id).Msg("movie deleted")
	return deleted, nil
}

// resolveGenre reports an unknown genre as a bad request rather than a
// missing resource: the genre id comes from the body, not the path.
func (s *MovieService) resolveGenre(ctx context.Context, id string) (*domain.Genre, error) {
	genre, err := s.genres.FindByID(ctx, id)
	if errors.Is(err, domain.ErrGenreNotFound) {
		return nil, domain.ErrInvalidGenre
	}
	return genre, err
}
