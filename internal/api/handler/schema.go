package handler

import "github.com/vidly/rental-system/internal/core/ports"

// --- Request types ---

type genreRequest struct {
	Name string `json:"name" validate:"required,min=5,max=50"`
}

func (r genreRequest) toInput() ports.GenreInput {
	return ports.GenreInput{Name: r.Name}
}

// Numeric fields are pointers so that a missing value is told apart from 0.
type movieRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=255"`
	GenreID         string `json:"genreId" validate:"required,mongodb"`
	NumberInStock   *int   `json:"numberInStock" validate:"required,min=0,max=255"`
	DailyRentalRate *int   `json:"dailyRentalRate" validate:"required,min=0,max=255"`
}

func (r movieRequest) toInput() ports.MovieInput {
	return ports.MovieInput{
		Title:           r.Title,
		GenreID:         r.GenreID,
		NumberInStock:   *r.NumberInStock,
		DailyRentalRate: *r.DailyRentalRate,
	}
}

type customerRequest struct {
	Name   string `json:"name" validate:"required,min=5,max=50"`
	Phone  string `json:"phone" validate:"required,min=5,max=50"`
	IsGold bool   `json:"isGold"`
}

func (r customerRequest) toInput() ports.CustomerInput {
	return ports.CustomerInput{Name: r.Name, Phone: r.Phone, IsGold: r.IsGold}
}

// rentalRequest is the body of both checkout and return.
type rentalRequest struct {
	CustomerID string `json:"customerId" validate:"required,mongodb"`
	MovieID    string `json:"movieId" validate:"required,mongodb"`
}

func (r rentalRequest) toInput() ports.RentalRequest {
	return ports.RentalRequest{CustomerID: r.CustomerID, MovieID: r.MovieID}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,min=5,max=255,email"`
	Password string `json:"password" validate:"required,min=5,max=1024"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=5,max=50"`
	Email    string `json:"email" validate:"required,min=5,max=255,email"`
	Password string `json:"password" validate:"required,min=5,max=1024"`
}

func (r registerRequest) toInput() ports.RegisterInput {
	return ports.RegisterInput{Name: r.Name, Email: r.Email, Password: r.Password}
}
