package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by the services wraps exactly one of these
// so the transport layer can map it to a status code with errors.Is.
var (
	ErrUnauthenticated  = errors.New("access denied, no token provided")
	ErrInvalidToken     = errors.New("invalid token")
	ErrForbidden        = errors.New("access forbidden")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyProcessed = errors.New("return already processed")
	ErrRateLimited      = errors.New("too many attempts, try again later")
)

var (
	ErrGenreNotFound    = fmt.Errorf("the genre with the given id was %w", ErrNotFound)
	ErrMovieNotFound    = fmt.Errorf("the movie with the given id was %w", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("the customer with the given id was %w", ErrNotFound)
	ErrRentalNotFound   = fmt.Errorf("the rental with the given id was %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	// ErrInvalidID is returned for a path id that is not an ObjectID. It is a
	// not-found error: such a resource cannot exist.
	ErrInvalidID = fmt.Errorf("invalid id, resource %w", ErrNotFound)

	// ErrNoRentalForPair is returned by the return flow when the customer never
	// rented the movie.
	ErrNoRentalForPair = fmt.Errorf("rental for this customer/movie %w", ErrNotFound)

	ErrGenreExists  = fmt.Errorf("%w: another genre with this name already exists", ErrConflict)
	ErrUserExists   = fmt.Errorf("%w: user already registered", ErrConflict)
	ErrRentalOpen   = fmt.Errorf("%w: customer already has an open rental for this movie", ErrConflict)
	ErrDuplicateKey = fmt.Errorf("%w: duplicate key", ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrValidation)
	ErrInvalidCustomer    = fmt.Errorf("%w: invalid customer", ErrValidation)
	ErrInvalidMovie       = fmt.Errorf("%w: invalid movie", ErrValidation)
	ErrInvalidGenre       = fmt.Errorf("%w: invalid genre", ErrValidation)
	ErrOutOfStock         = fmt.Errorf("%w: movie not in stock", ErrValidation)
)

// ValidationError reports the first field that failed schema validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// public lists the errors whose text may be shown to clients, most specific first.
var public = []error{
	ErrGenreNotFound, ErrMovieNotFound, ErrCustomerNotFound, ErrRentalNotFound,
	ErrUserNotFound, ErrInvalidID, ErrNoRentalForPair,
	ErrGenreExists, ErrUserExists, ErrRentalOpen, ErrDuplicateKey,
	ErrInvalidCredentials, ErrInvalidCustomer, ErrInvalidMovie, ErrInvalidGenre, ErrOutOfStock,
	ErrUnauthenticated, ErrInvalidToken, ErrForbidden, ErrAlreadyProcessed, ErrRateLimited,
	ErrValidation, ErrConflict, ErrNotFound,
}

// Message returns the client-facing text of err: the message of the most
// specific domain error it wraps, without the kind prefix or any context
// added while the error travelled up the stack.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	for _, known := range public {
		if errors.Is(err, known) {
			return strip(known.Error())
		}
	}
	return err.Error()
}

func strip(msg string) string {
	for _, kind := range []error{ErrConflict, ErrValidation} {
		msg = strings.TrimPrefix(msg, kind.Error()+": ")
	}
	return msg
}
