package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

func TestMovieService_Create_EmbedsGenre(t *testing.T) {
	genres := newStubGenreRepo()
	genres.byID["g1"] = &domain.Genre{ID: "g1", Name: "Comedy"}
	svc := NewMovieService(newStubMovieRepo(), genres, discardLogger)

	m, err := svc.Create(context.Background(), ports.MovieInput{
		Title: "Airplane!", GenreID: "g1", NumberInStock: 4, DailyRentalRate: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Genre.ID != "g1" || m.Genre.Name != "Comedy" {
		t.Fatalf("genre not embedded: %+v", m.Genre)
	}
	if m.NumberInStock != 4 || m.DailyRentalRate != 2 {
		t.Fatalf("unexpected movie: %+v", m)
	}
}

func TestMovieService_Create_UnknownGenre(t *testing.T) {
	movies := newStubMovieRepo()
	svc := NewMovieService(movies, newStubGenreRepo(), discardLogger)

	_, err := svc.Create(context.Background(), ports.MovieInput{Title: "Heat", GenreID: "missing"})
	if !errors.Is(err, domain.ErrInvalidGenre) {
		t.Fatalf("expected ErrInvalidGenre, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown genre must be a validation failure, got %v", err)
	}
	if len(movies.byID) != 0 {
		t.Fatal("nothing must be stored")
	}
}

func TestMovieService_Update_NotFound(t *testing.T) {
	genres := newStubGenreRepo()
	genres.byID["g1"] = &domain.Genre{ID: "g1", Name: "Comedy"}
	svc := NewMovieService(newStubMovieRepo(), genres, discardLogger)

	_, err := svc.Update(context.Background(), "m404", ports.MovieInput{Title: "Heat", GenreID: "g1"})
	if !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestMovieService_List_FilterByGenre(t *testing.T) {
	movies := newStubMovieRepo()
	movies.byID["m1"] = &domain.Movie{ID: "m1", Title: "B", Genre: domain.GenreRef{ID: "g1"}}
	movies.byID["m2"] = &domain.Movie{ID: "m2", Title: "A", Genre: domain.GenreRef{ID: "g2"}}
	movies.byID["m3"] = &domain.Movie{ID: "m3", Title: "C", Genre: domain.GenreRef{ID: "g1"}}
	svc := NewMovieService(movies, newStubGenreRepo(), discardLogger)

	list, err := svc.List(context.Background(), ports.MovieFilter{GenreID: "g1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].Title != "B" || list[1].Title != "C" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestCustomerService_CRUD(t *testing.T) {
	svc := NewCustomerService(newStubCustomerRepo(), discardLogger)
	ctx := context.Background()

	c, err := svc.Create(ctx, ports.CustomerInput{Name: "Alice", Phone: "12345", IsGold: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, c.ID, ports.CustomerInput{Name: "Alicia", Phone: "12345"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.Get(ctx, c.ID)
	if err != nil || got.Name != "Alicia" || got.IsGold {
		t.Fatalf("unexpected customer: %+v, %v", got, err)
	}
	if _, err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, c.ID); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}
