package ports

import (
	"context"
	"time"

	"github.com/vidly/rental-system/internal/core/domain"
)

// GenreRepository defines persistence operations for genres.
type GenreRepository interface {
	Create(ctx context.Context, g *domain.Genre) (*domain.Genre, error)
	FindByID(ctx context.Context, id string) (*domain.Genre, error)
	// FindByName returns ErrGenreNotFound when no genre carries the name.
	FindByName(ctx context.Context, name string) (*domain.Genre, error)
	Update(ctx context.Context, g *domain.Genre) (*domain.Genre, error)
	Delete(ctx context.Context, id string) (*domain.Genre, error)
	// List returns all genres ordered by name.
	List(ctx context.Context) ([]*domain.Genre, error)
}

// MovieFilter narrows MovieRepository.List. Zero values mean no filter.
type MovieFilter struct {
	GenreID string
}

// MovieRepository defines persistence operations for movies.
type MovieRepository interface {
	Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error)
	FindByID(ctx context.Context, id string) (*domain.Movie, error)
	Update(ctx context.Context, m *domain.Movie) (*domain.Movie, error)
	Delete(ctx context.Context, id string) (*domain.Movie, error)
	// List returns movies ordered by title.
	List(ctx context.Context, filter MovieFilter) ([]*domain.Movie, error)
}

// CustomerRepository defines persistence operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) (*domain.Customer, error)
	// List returns customers ordered by name.
	List(ctx context.Context) ([]*domain.Customer, error)
}

// RentalFilter narrows RentalRepository.List.
type RentalFilter struct {
	CustomerID string // optional
	OpenOnly   bool
}

// RentalRepository defines persistence operations for rentals. Checkout and
// CompleteReturn each touch a rental and its movie and must commit both or
// neither.
type RentalRepository interface {
	// Checkout inserts the open rental and takes one copy of the movie out of
	// stock. Fails with ErrOutOfStock when no copy is left, ErrRentalOpen when
	// the pair already has an open rental.
	Checkout(ctx context.Context, r *domain.Rental) (*domain.Rental, error)
	FindByID(ctx context.Context, id string) (*domain.Rental, error)
	// FindByCustomerAndMovie returns the open rental for the pair, or the most
	// recently closed one when none is open. ErrNoRentalForPair otherwise.
	FindByCustomerAndMovie(ctx context.Context, customerID, movieID string) (*domain.Rental, error)
	// CompleteReturn persists DateReturned and RentalFee on a rental that is
	// still open and puts the movie back in stock. Fails with
	// ErrAlreadyProcessed when another request closed it first.
	CompleteReturn(ctx context.Context, r *domain.Rental) error
	Delete(ctx context.Context, id string) (*domain.Rental, error)
	// List returns rentals, most recent checkout first.
	List(ctx context.Context, filter RentalFilter) ([]*domain.Rental, error)
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// NameLocker provides a critical section keyed by name, shared by every
// process that writes to the same store.
type NameLocker interface {
	// Lock blocks until the name is held or ctx is done. The returned func
	// releases it.
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

// EventDispatcher hands committed rental events to the broker asynchronously.
type EventDispatcher interface {
	Enqueue(event domain.RentalEvent)
}

// EventPublisher delivers a single event to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.RentalEvent) error
}

// RateDecision is the outcome of a single rate-limit check.
type RateDecision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// RateLimiter spends one unit of key's budget per call.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
	// Limit is the burst size reported to clients.
	Limit() int
}
