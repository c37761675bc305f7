package domain

import "time"

const day = 24 * time.Hour

// CustomerSnapshot is the customer as it was when the rental was created.
type CustomerSnapshot struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// MovieSnapshot is the movie as it was when the rental was created. The fee is
// always billed at this DailyRentalRate, never at the live movie's rate.
type MovieSnapshot struct {
	ID              string `json:"_id"`
	Title           string `json:"title"`
	DailyRentalRate int    `json:"dailyRentalRate"`
}

// Rental is a single customer/movie checkout. It is open while DateReturned is nil.
type Rental struct {
	ID           string           `json:"_id"`
	Customer     CustomerSnapshot `json:"customer"`
	Movie        MovieSnapshot    `json:"movie"`
	DateOut      time.Time        `json:"dateOut"`
	DateReturned *time.Time       `json:"dateReturned,omitempty"`
	RentalFee    *int             `json:"rentalFee,omitempty"`
}

// NewRental opens a rental for the given customer and movie at dateOut.
func NewRental(c *Customer, m *Movie, dateOut time.Time) *Rental {
	return &Rental{
		Customer: c.Snapshot(),
		Movie:    m.Snapshot(),
		DateOut:  dateOut.UTC(),
	}
}

// IsOpen reports whether the rental has not been returned yet.
func (r *Rental) IsOpen() bool {
	return r.DateReturned == nil
}

// Return stamps the return date and computes the fee. It fails with
// ErrAlreadyProcessed when the rental is already closed and leaves r untouched.
func (r *Rental) Return(at time.Time) error {
	if !r.IsOpen() {
		return ErrAlreadyProcessed
	}
	at = at.UTC()
	fee := DaysRented(r.DateOut, at) * r.Movie.DailyRentalRate
	r.DateReturned = &at
	r.RentalFee = &fee
	return nil
}

// DaysRented counts the whole days between out and returned. A rental returned
// within its first day is billed as one day.
func DaysRented(out, returned time.Time) int {
	days := int(returned.Sub(out) / day)
	if days < 1 {
		return 1
	}
	return days
}
