package ports

import (
	"context"

	"github.com/vidly/rental-system/internal/core/domain"
)

// GenreInput carries the writable fields of a genre.
type GenreInput struct {
	Name string
}

type GenreService interface {
	List(ctx context.Context) ([]*domain.Genre, error)
	Get(ctx context.Context, id string) (*domain.Genre, error)
	Create(ctx context.Context, in GenreInput) (*domain.Genre, error)
	Update(ctx context.Context, id string, in GenreInput) (*domain.Genre, error)
	Delete(ctx context.Context, id string) (*domain.Genre, error)
}

// MovieInput carries the writable fields of a movie. GenreID is resolved to a
// genre snapshot by the service.
type MovieInput struct {
	Title           string
	GenreID         string
	NumberInStock   int
	DailyRentalRate int
}

type MovieService interface {
	List(ctx context.Context, filter MovieFilter) ([]*domain.Movie, error)
	Get(ctx context.Context, id string) (*domain.Movie, error)
	Create(ctx context.Context, in MovieInput) (*domain.Movie, error)
	Update(ctx context.Context, id string, in MovieInput) (*domain.Movie, error)
	Delete(ctx context.Context, id string) (*domain.Movie, error)
}

// CustomerInput carries the writable fields of a customer.
type CustomerInput struct {
	Name   string
	Phone  string
	IsGold bool
}

type CustomerService interface {
	List(ctx context.Context) ([]*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, in CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, id string, in CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id string) (*domain.Customer, error)
}

// RentalRequest identifies a customer/movie pair for checkout or return.
type RentalRequest struct {
	CustomerID string
	MovieID    string
}

type RentalService interface {
	List(ctx context.Context, filter RentalFilter) ([]*domain.Rental, error)
	Get(ctx context.Context, id string) (*domain.Rental, error)
	Checkout(ctx context.Context, in RentalRequest) (*domain.Rental, error)
	Delete(ctx context.Context, id string) (*domain.Rental, error)
}

// ReturnService closes open rentals.
type ReturnService interface {
	Return(ctx context.Context, in RentalRequest) (*domain.Rental, error)
}

// RegisterInput carries a new account's details.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}
