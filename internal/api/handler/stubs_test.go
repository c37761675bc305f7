package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

const (
	customerID = "65f1c0ffee0000000000c001"
	movieID    = "65f1c0ffee0000000000a001"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type stubGenreService struct {
	createFn func(ctx context.Context, in ports.GenreInput) (*domain.Genre, error)
	calls    int
}

func (s *stubGenreService) List(context.Context) ([]*domain.Genre, error) {
	return []*domain.Genre{{ID: "g1", Name: "Action"}, {ID: "g2", Name: "Drama"}}, nil
}

func (s *stubGenreService) Get(_ context.Context, id string) (*domain.Genre, error) {
	return nil, domain.ErrGenreNotFound
}

func (s *stubGenreService) Create(ctx context.Context, in ports.GenreInput) (*domain.Genre, error) {
	s.calls++
	if s.createFn != nil {
		return s.createFn(ctx, in)
	}
	return &domain.Genre{ID: "g1", Name: in.Name}, nil
}

func (s *stubGenreService) Update(_ context.Context, id string, in ports.GenreInput) (*domain.Genre, error) {
	s.calls++
	return &domain.Genre{ID: id, Name: in.Name}, nil
}

func (s *stubGenreService) Delete(_ context.Context, id string) (*domain.Genre, error) {
	return &domain.Genre{ID: id, Name: "Action"}, nil
}

type stubMovieService struct {
	got   ports.MovieInput
	calls int
}

func (s *stubMovieService) List(context.Context, ports.MovieFilter) ([]*domain.Movie, error) {
	return []*domain.Movie{}, nil
}

func (s *stubMovieService) Get(context.Context, string) (*domain.Movie, error) {
	return nil, domain.ErrMovieNotFound
}

func (s *stubMovieService) Create(_ context.Context, in ports.MovieInput) (*domain.Movie, error) {
	s.calls++
	s.got = in
	return &domain.Movie{ID: movieID, Title: in.Title, NumberInStock: in.NumberInStock, DailyRentalRate: in.DailyRentalRate}, nil
}

func (s *stubMovieService) Update(_ context.Context, id string, in ports.MovieInput) (*domain.Movie, error) {
	s.calls++
	s.got = in
	return &domain.Movie{ID: id, Title: in.Title}, nil
}

func (s *stubMovieService) Delete(context.Context, string) (*domain.Movie, error) {
	return nil, domain.ErrMovieNotFound
}

type stubReturnService struct {
	returnFn func(ctx context.Context, in ports.RentalRequest) (*domain.Rental, error)
	calls    int
}

func (s *stubReturnService) Return(ctx context.Context, in ports.RentalRequest) (*domain.Rental, error) {
	s.calls++
	return s.returnFn(ctx, in)
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}
