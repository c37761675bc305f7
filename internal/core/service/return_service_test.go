package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

type returnFixture struct {
	movies  *stubMovieRepo
	rentals *stubRentalRepo
	events  *recordingDispatcher
	svc     *returnService
	now     time.Time
}

// newReturnFixture seeds one movie with 10 copies (rate 2) and one open
// rental of it taken out daysAgo days ago.
func newReturnFixture(daysAgo int) *returnFixture {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	movies := newStubMovieRepo()
	movies.byID["m1"] = &domain.Movie{ID: "m1", Title: "12345", NumberInStock: 10, DailyRentalRate: 2}
	rentals := newStubRentalRepo(movies)
	rentals.byID["r1"] = &domain.Rental{
		ID:       "r1",
		Customer: domain.CustomerSnapshot{ID: "c1", Name: "12345", Phone: "12345"},
		Movie:    domain.MovieSnapshot{ID: "m1", Title: "12345", DailyRentalRate: 2},
		DateOut:  now.AddDate(0, 0, -daysAgo),
	}
	events := &recordingDispatcher{}
	svc := NewReturnService(rentals, events, discardLogger).(*returnService)
	svc.now = func() time.Time { return now }
	return &returnFixture{movies: movies, rentals: rentals, events: events, svc: svc, now: now}
}

var pair = ports.RentalRequest{CustomerID: "c1", MovieID: "m1"}

func TestReturnService_Return_Success(t *testing.T) {
	f := newReturnFixture(7)

	rental, err := f.svc.Return(context.Background(), pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rental.DateReturned == nil || !rental.DateReturned.Equal(f.now) {
		t.Fatalf("return date not stamped: %v", rental.DateReturned)
	}
	if rental.RentalFee == nil || *rental.RentalFee != 14 {
		t.Fatalf("expected fee 14, got %v", rental.RentalFee)
	}
	if rental.Customer.ID != "c1" || rental.Movie.ID != "m1" || rental.DateOut.IsZero() {
		t.Fatalf("returned rental is incomplete: %+v", rental)
	}

	stored := f.rentals.get("r1")
	if stored.IsOpen() || *stored.RentalFee != 14 {
		t.Fatalf("rental not persisted as closed: %+v", stored)
	}
	if got := f.movies.stock("m1"); got != 11 {
		t.Fatalf("expected stock 11, got %d", got)
	}
	if f.events.count() != 1 || f.events.events[0].Type != domain.RentalReturned {
		t.Fatalf("expected one rental.returned event, got %+v", f.events.events)
	}
}

func TestReturnService_Return_BillsSnapshotRate(t *testing.T) {
	f := newReturnFixture(3)
	// The live price changed after checkout; the rental keeps the old one.
	f.movies.byID["m1"].DailyRentalRate = 50

	rental, err := f.svc.Return(context.Background(), pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *rental.RentalFee != 6 {
		t.Fatalf("expected fee 6 at the snapshot rate, got %d", *rental.RentalFee)
	}
}

func TestReturnService_Return_SameDayMinimumOneDay(t *testing.T) {
	f := newReturnFixture(0)

	rental, err := f.svc.Return(context.Background(), pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *rental.RentalFee != 2 {
		t.Fatalf("expected one day billed, got %d", *rental.RentalFee)
	}
}

func TestReturnService_Return_NoRental(t *testing.T) {
	f := newReturnFixture(1)

	_, err := f.svc.Return(context.Background(), ports.RentalRequest{CustomerID: "c2", MovieID: "m1"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.movies.stock("m1") != 10 {
		t.Fatal("stock must be untouched")
	}
}

func TestReturnService_Return_Twice(t *testing.T) {
	f := newReturnFixture(2)

	if _, err := f.svc.Return(context.Background(), pair); err != nil {
		t.Fatalf("first return failed: %v", err)
	}
	_, err := f.svc.Return(context.Background(), pair)
	if !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	if got := f.movies.stock("m1"); got != 11 {
		t.Fatalf("stock must be incremented once, got %d", got)
	}
	if f.events.count() != 1 {
		t.Fatalf("expected a single event, got %d", f.events.count())
	}
}

func TestReturnService_Return_AlreadyClosedRental(t *testing.T) {
	f := newReturnFixture(2)
	returned := f.now.Add(-time.Hour)
	fee := 4
	f.rentals.byID["r1"].DateReturned = &returned
	f.rentals.byID["r1"].RentalFee = &fee

	if _, err := f.svc.Return(context.Background(), pair); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	if f.rentals.completed != 0 {
		t.Fatal("store must not be written")
	}
}

func TestReturnService_Return_Concurrent(t *testing.T) {
	f := newReturnFixture(5)

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Return(context.Background(), pair)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrAlreadyProcessed):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || rejected != n-1 {
		t.Fatalf("expected 1 success and %d rejections, got %d/%d", n-1, succeeded, rejected)
	}
	if got := f.movies.stock("m1"); got != 11 {
		t.Fatalf("expected stock 11, got %d", got)
	}
}

func TestReturnService_Return_StoreFailure(t *testing.T) {
	f := newReturnFixture(1)
	storeErr := errors.New("transaction aborted")
	f.rentals.completeErr = storeErr

	_, err := f.svc.Return(context.Background(), pair)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if !f.rentals.get("r1").IsOpen() || f.movies.stock("m1") != 10 {
		t.Fatal("a failed transaction must leave rental and stock untouched")
	}
	if f.events.count() != 0 {
		t.Fatal("no event for a failed return")
	}
}
