package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vidly/rental-system/internal/api/metrics"
	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

type GenreService struct {
	repo   ports.GenreRepository
	locker ports.NameLocker
	log    zerolog.Logger
}

func NewGenreService(repo ports.GenreRepository, locker ports.NameLocker, log zerolog.Logger) *GenreService {
	return &GenreService{repo: repo, locker: locker, log: log}
}

func (s *GenreService) List(ctx context.Context) ([]*domain.Genre, error) {
	return s.repo.List(ctx)
}

func (s *GenreService) Get(ctx context.Context, id string) (*domain.Genre, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new genre unless another one already carries the name.
func (s *GenreService) Create(ctx context.Context, in ports.GenreInput) (*domain.Genre, error) {
	unlock, err := s.locker.Lock(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.ensureNameFree(ctx, in.Name, ""); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Genre{Name: in.Name})
	if err != nil {
		return nil, uniqueName(err)
	}

	metrics.GenresCreatedTotal.Inc()
	s.log.Info().Str("genre_id", created.ID).Str("name", created.Name).Msg("genre created")
	return created, nil
}

// Update renames the genre. Renaming a genre to its current name is allowed.
func (s *GenreService) Update(ctx context.Context, id string, in ports.GenreInput) (*domain.Genre, error) {
	unlock, err := s.locker.Lock(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.ensureNameFree(ctx, in.Name, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, &domain.Genre{ID: id, Name: in.Name})
	if err != nil {
		return nil, uniqueName(err)
	}

	s.log.Info().Str("genre_id", id).Msg("genre updated")
	return updated, nil
}

func (s *GenreService) Delete(ctx context.Context, id string) (*domain.Genre, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("genre_id", id).Msg("genre deleted")
	return deleted, nil
}

// ensureNameFree fails with ErrGenreExists when a genre other than exceptID
// already uses name.
func (s *GenreService) ensureNameFree(ctx context.Context, name, exceptID string) error {
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrGenreNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		return domain.ErrGenreExists
	}
	return nil
}

// uniqueName maps the store's unique-index violation to the API conflict.
func uniqueName(err error) error {
	if errors.Is(err, domain.ErrDuplicateKey) {
		return domain.ErrGenreExists
	}
	return err
}
