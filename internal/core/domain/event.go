package domain

import "time"

type RentalEventType string

const (
	RentalCreated  RentalEventType = "rental.created"
	RentalReturned RentalEventType = "rental.returned"
)

// RentalEvent is emitted after a checkout or a return has been committed.
type RentalEvent struct {
	ID         string          `json:"id"`
	Type       RentalEventType `json:"type"`
	RentalID   string          `json:"rentalId"`
	CustomerID string          `json:"customerId"`
	MovieID    string          `json:"movieId"`
	RentalFee  *int            `json:"rentalFee,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// NewRentalEvent describes r for downstream consumers.
func NewRentalEvent(id string, typ RentalEventType, r *Rental, at time.Time) RentalEvent {
	return RentalEvent{
		ID:         id,
		Type:       typ,
		RentalID:   r.ID,
		CustomerID: r.Customer.ID,
		MovieID:    r.Movie.ID,
		RentalFee:  r.RentalFee,
		OccurredAt: at.UTC(),
	}
}
