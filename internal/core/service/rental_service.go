package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vidly/rental-system/internal/api/metrics"
	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

// RentalService opens rentals and serves rental history.
type RentalService struct {
	rentals   ports.RentalRepository
	movies    ports.MovieRepository
	customers ports.CustomerRepository
	events    ports.EventDispatcher
	log       zerolog.Logger
	now       func() time.Time
}

func NewRentalService(
	rentals ports.RentalRepository,
	movies ports.MovieRepository,
	customers ports.CustomerRepository,
	events ports.EventDispatcher,
	log zerolog.Logger,
) *RentalService {
	return &RentalService{
		rentals:   rentals,
		movies:    movies,
		customers: customers,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

func (s *RentalService) List(ctx context.Context, filter ports.RentalFilter) ([]*domain.Rental, error) {
	return s.rentals.List(ctx, filter)
}

func (s *RentalService) Get(ctx context.Context, id string) (*domain.Rental, error) {
	return s.rentals.FindByID(ctx, id)
}

// Checkout opens a rental for the pair, copying the customer and the movie
// (with its current daily rate) into it, and takes one copy out of stock.
func (s *RentalService) Checkout(ctx context.Context, in ports.RentalRequest) (*domain.Rental, error) {
	customer, err := s.customers.FindByID(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, domain.ErrInvalidCustomer
		}
		return nil, err
	}

	movie, err := s.movies.FindByID(ctx, in.MovieID)
	if err != nil {
		if errors.Is(err, domain.ErrMovieNotFound) {
			return nil, domain.ErrInvalidMovie
		}
		return nil, err
	}

	// Fast path; the repository re-checks stock inside the transaction.
	if !movie.InStock() {
		return nil, domain.ErrOutOfStock
	}

	rental, err := s.rentals.Checkout(ctx, domain.NewRental(customer, movie, s.now()))
	if err != nil {
		return nil, err
	}

	metrics.RentalsCheckedOutTotal.Inc()
	s.events.Enqueue(domain.NewRentalEvent(uuid.NewString(), domain.RentalCreated, rental, s.now()))
	s.log.Info().
		Str("rental_id", rental.ID).
		Str("customer_id", in.CustomerID).
		Str("movie_id", in.MovieID).
		Msg("rental created")

	return rental, nil
}

func (s *RentalService) Delete(ctx context.Context, id string) (*domain.Rental, error) {
	deleted, err := s.rentals.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("rental_id", id).Msg("rental deleted")
	return deleted, nil
}
