package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type idSeq struct {
	mu sync.Mutex
	n  int
}

func (s *idSeq) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", prefix, s.n)
}

type stubGenreRepo struct {
	mu     sync.Mutex
	ids    idSeq
	byID   map[string]*domain.Genre
	unique bool // when set, Create/Update enforce the name index
	calls  int
}

func newStubGenreRepo() *stubGenreRepo {
	return &stubGenreRepo{byID: make(map[string]*domain.Genre)}
}

func (r *stubGenreRepo) Create(_ context.Context, g *domain.Genre) (*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.unique && r.nameTaken(g.Name, "") {
		return nil, domain.ErrDuplicateKey
	}
	clone := *g
	clone.ID = r.ids.next("g")
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubGenreRepo) FindByID(_ context.Context, id string) (*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	g, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrGenreNotFound
	}
	clone := *g
	return &clone, nil
}

func (r *stubGenreRepo) FindByName(_ context.Context, name string) (*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, g := range r.byID {
		if g.Name == name {
			clone := *g
			return &clone, nil
		}
	}
	return nil, domain.ErrGenreNotFound
}

func (r *stubGenreRepo) Update(_ context.Context, g *domain.Genre) (*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.byID[g.ID]; !ok {
		return nil, domain.ErrGenreNotFound
	}
	if r.unique && r.nameTaken(g.Name, g.ID) {
		return nil, domain.ErrDuplicateKey
	}
	clone := *g
	r.byID[g.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubGenreRepo) Delete(_ context.Context, id string) (*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	g, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrGenreNotFound
	}
	delete(r.byID, id)
	return g, nil
}

func (r *stubGenreRepo) List(_ context.Context) ([]*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := make([]*domain.Genre, 0, len(r.byID))
	for _, g := range r.byID {
		clone := *g
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubGenreRepo) nameTaken(name, exceptID string) bool {
	for id, g := range r.byID {
		if g.Name == name && id != exceptID {
			return true
		}
	}
	return false
}

func (r *stubGenreRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type stubMovieRepo struct {
	mu   sync.Mutex
	ids  idSeq
	byID map[string]*domain.Movie
}

func newStubMovieRepo() *stubMovieRepo {
	return &stubMovieRepo{byID: make(map[string]*domain.Movie)}
}

func (r *stubMovieRepo) Create(_ context.Context, m *domain.Movie) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *m
	if clone.ID == "" {
		clone.ID = r.ids.next("m")
	}
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubMovieRepo) FindByID(_ context.Context, id string) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMovieRepo) Update(_ context.Context, m *domain.Movie) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; !ok {
		return nil, domain.ErrMovieNotFound
	}
	clone := *m
	r.byID[m.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubMovieRepo) Delete(_ context.Context, id string) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	delete(r.byID, id)
	return m, nil
}

func (r *stubMovieRepo) List(_ context.Context, f ports.MovieFilter) ([]*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Movie
	for _, m := range r.byID {
		if f.GenreID != "" && m.Genre.ID != f.GenreID {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *stubMovieRepo) stock(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].NumberInStock
}

// adjust mirrors the $inc performed inside the Mongo transactions.
func (r *stubMovieRepo) adjust(id string, delta int) bool {
	m, ok := r.byID[id]
	if !ok {
		return false
	}
	m.NumberInStock += delta
	return true
}

type stubCustomerRepo struct {
	byID map[string]*domain.Customer
}

func newStubCustomerRepo(customers ...*domain.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{byID: make(map[string]*domain.Customer)}
	for _, c := range customers {
		r.byID[c.ID] = c
	}
	return r
}

func (r *stubCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	clone := *c
	clone.ID = fmt.Sprintf("c%d", len(r.byID)+1)
	r.byID[clone.ID] = &clone
	return &clone, nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	if _, ok := r.byID[c.ID]; !ok {
		return nil, domain.ErrCustomerNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return &clone, nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	delete(r.byID, id)
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]*domain.Customer, error) {
	out := make([]*domain.Customer, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

// stubRentalRepo shares a lock with the movie stub so that checkout and return
// behave like the transactional Mongo implementation.
type stubRentalRepo struct {
	movies      *stubMovieRepo
	ids         idSeq
	byID        map[string]*domain.Rental
	completeErr error
	completed   int
}

func newStubRentalRepo(movies *stubMovieRepo) *stubRentalRepo {
	return &stubRentalRepo{movies: movies, byID: make(map[string]*domain.Rental)}
}

func (r *stubRentalRepo) Checkout(_ context.Context, rental *domain.Rental) (*domain.Rental, error) {
	r.movies.mu.Lock()
	defer r.movies.mu.Unlock()
	for _, existing := range r.byID {
		if existing.IsOpen() && existing.Customer.ID == rental.Customer.ID && existing.Movie.ID == rental.Movie.ID {
			return nil, domain.ErrRentalOpen
		}
	}
	m, ok := r.movies.byID[rental.Movie.ID]
	if !ok || m.NumberInStock <= 0 {
		return nil, domain.ErrOutOfStock
	}
	m.NumberInStock--
	clone := *rental
	clone.ID = r.ids.next("r")
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubRentalRepo) FindByID(_ context.Context, id string) (*domain.Rental, error) {
	r.movies.mu.Lock()
	defer r.movies.mu.Unlock()
	rental, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	clone := *rental
	return &clone, nil
}

func (r *stubRentalRepo) FindByCustomerAndMovie(_ context.Context, customerID, movieID string) (*domain.Rental, error) {
	r.movies.mu.Lock()
	defer r.movies.mu.Unlock()
	var closed *domain.Rental
	for _, rental := range r.byID {
		if rental.Customer.ID != customerID || rental.Movie.ID != movieID {
			continue
		}
		if rental.IsOpen() {
			clone := *rental
			return &clone, nil
		}
		closed = rental
	}
	if closed == nil {
		return nil, domain.ErrNoRentalForPair
	}
	clone := *closed
	return &clone, nil
}

func (r *stubRentalRepo) CompleteReturn(_ context.Context, rental *domain.Rental) error {
	if r.completeErr != nil {
		return r.completeErr
	}
	r.movies.mu.Lock()
	defer r.movies.mu.Unlock()
	stored, ok := r.byID[rental.ID]
	if !ok || !stored.IsOpen() {
		return domain.ErrAlreadyProcessed
	}
	stored.DateReturned = rental.DateReturned
	stored.RentalFee = rental.RentalFee
	r.movies.adjust(rental.Movie.ID, 1)
	r.completed++
	return nil
}

func (r *stubRentalRepo) Delete(_ context.Context, id string) (*domain.Rental, error) {
	r.movies.mu.Lock()
	defer r.movies.mu.Unlock()
	rental, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	delete(r.byID, id)
	return rental, nil
}

func (r *stubRentalRepo) List(_ context.Context, f ports.RentalFilter) ([]*domain.Rental, error) {
	r.movies.mu.Lock()
	defer r.movies.mu.Unlock()
	var out []*domain.Rental
	for _, rental := range r.byID {
		if f.CustomerID != "" && rental.Customer.ID != f.CustomerID {
			continue
		}
		if f.OpenOnly && !rental.IsOpen() {
			continue
		}
		clone := *rental
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateOut.After(out[j].DateOut) })
	return out, nil
}

func (r *stubRentalRepo) put(rental *domain.Rental) {
	r.movies.mu.Lock()
	defer r.movies.mu.Unlock()
	r.byID[rental.ID] = rental
}

func (r *stubRentalRepo) get(id string) *domain.Rental {
	r.movies.mu.Lock()
	defer r.movies.mu.Unlock()
	clone := *r.byID[id]
	return &clone
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// keyedLocker is an in-process NameLocker.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *keyedLocker) Lock(_ context.Context, name string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[name]
	if !ok {
		m = &sync.Mutex{}
		l.locks[name] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

// noLocker lets every caller in, exposing the read-then-write race.
type noLocker struct{}

func (noLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

type failingLocker struct{ err error }

func (l failingLocker) Lock(context.Context, string) (func(), error) { return nil, l.err }

type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.RentalEvent
}

func (d *recordingDispatcher) Enqueue(e domain.RentalEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}
