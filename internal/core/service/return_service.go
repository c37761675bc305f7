package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vidly/rental-system/internal/api/metrics"
	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

type returnService struct {
	rentals ports.RentalRepository
	events  ports.EventDispatcher
	log     zerolog.Logger
	now     func() time.Time
}

// NewReturnService returns a ReturnService implementation.
func NewReturnService(rentals ports.RentalRepository, events ports.EventDispatcher, log zerolog.Logger) ports.ReturnService {
	return &returnService{rentals: rentals, events: events, log: log, now: time.Now}
}

// Return closes the customer's rental of the movie, bills it at the rate copied
// at checkout and puts the copy back in stock.
func (s *returnService) Return(ctx context.Context, in ports.RentalRequest) (*domain.Rental, error) {
	// 1. Find the rental for the pair (open one first).
	rental, err := s.rentals.FindByCustomerAndMovie(ctx, in.CustomerID, in.MovieID)
	if err != nil {
		metrics.RentalReturnsTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("return rental: %w", err)
	}

	// 2-4. Stamp the return date and compute the fee; closed rentals are refused.
	if err := rental.Return(s.now()); err != nil {
		metrics.RentalReturnsTotal.WithLabelValues("already_processed").Inc()
		return nil, fmt.Errorf("return rental %s: %w", rental.ID, err)
	}

	// 5-6. Persist the closed rental and restock the movie in one transaction.
	// A concurrent return of the same rental loses here with ErrAlreadyProcessed.
	if err := s.rentals.CompleteReturn(ctx, rental); err != nil {
		metrics.RentalReturnsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("return rental %s: %w", rental.ID, err)
	}

	metrics.RentalReturnsTotal.WithLabelValues("returned").Inc()
	metrics.RentalFeeCharged.Observe(float64(*rental.RentalFee))
	s.events.Enqueue(domain.NewRentalEvent(uuid.NewString(), domain.RentalReturned, rental, s.now()))

	s.log.Info().
		Str("rental_id", rental.ID).
		Str("customer_id", in.CustomerID).
		Str("movie_id", in.MovieID).
		Int("rental_fee", *rental.RentalFee).
		Msg("rental returned")

	return rental, nil
}
