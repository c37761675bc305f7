package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

func TestGenreService_Create_Success(t *testing.T) {
	repo := newStubGenreRepo()
	svc := NewGenreService(repo, newKeyedLocker(), discardLogger)

	g, err := svc.Create(context.Background(), ports.GenreInput{Name: "genre1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ID == "" || g.Name != "genre1" {
		t.Fatalf("unexpected genre: %+v", g)
	}
	if repo.count() != 1 {
		t.Fatalf("expected 1 stored genre, got %d", repo.count())
	}
}

func TestGenreService_Create_DuplicateName(t *testing.T) {
	repo := newStubGenreRepo()
	svc := NewGenreService(repo, newKeyedLocker(), discardLogger)
	_, _ = svc.Create(context.Background(), ports.GenreInput{Name: "comedy"})

	_, err := svc.Create(context.Background(), ports.GenreInput{Name: "comedy"})
	if !errors.Is(err, domain.ErrGenreExists) {
		t.Fatalf("expected ErrGenreExists, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected a conflict kind, got %v", err)
	}
}

func TestGenreService_Create_UniqueIndexBackstop(t *testing.T) {
	repo := newStubGenreRepo()
	repo.unique = true
	repo.byID["g0"] = &domain.Genre{ID: "g0", Name: "horror"}
	svc := NewGenreService(&blindNameRepo{repo}, noLocker{}, discardLogger)

	_, err := svc.Create(context.Background(), ports.GenreInput{Name: "horror"})
	if !errors.Is(err, domain.ErrGenreExists) {
		t.Fatalf("expected ErrGenreExists from the index, got %v", err)
	}
}

func TestGenreService_Create_LockFailure(t *testing.T) {
	repo := newStubGenreRepo()
	lockErr := errors.New("redis down")
	svc := NewGenreService(repo, failingLocker{err: lockErr}, discardLogger)

	_, err := svc.Create(context.Background(), ports.GenreInput{Name: "drama"})
	if !errors.Is(err, lockErr) {
		t.Fatalf("expected lock error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("store must not be touched, got %d calls", repo.calls)
	}
}

func TestGenreService_Create_ConcurrentSameName(t *testing.T) {
	repo := newStubGenreRepo()
	svc := NewGenreService(repo, newKeyedLocker(), discardLogger)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), ports.GenreInput{Name: "thriller"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrGenreExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", n-1, succeeded, conflicts)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly one stored genre, got %d", repo.count())
	}
}

func TestGenreService_Update_KeepsOwnName(t *testing.T) {
	repo := newStubGenreRepo()
	repo.byID["g1"] = &domain.Genre{ID: "g1", Name: "genre1"}
	svc := NewGenreService(repo, newKeyedLocker(), discardLogger)

	g, err := svc.Update(context.Background(), "g1", ports.GenreInput{Name: "genre1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name != "genre1" {
		t.Fatalf("unexpected name %q", g.Name)
	}
}

func TestGenreService_Update_NameTakenByAnother(t *testing.T) {
	repo := newStubGenreRepo()
	repo.byID["g1"] = &domain.Genre{ID: "g1", Name: "genre1"}
	repo.byID["g2"] = &domain.Genre{ID: "g2", Name: "genre2"}
	svc := NewGenreService(repo, newKeyedLocker(), discardLogger)

	if _, err := svc.Update(context.Background(), "g1", ports.GenreInput{Name: "genre2"}); !errors.Is(err, domain.ErrGenreExists) {
		t.Fatalf("expected ErrGenreExists, got %v", err)
	}
	if repo.byID["g1"].Name != "genre1" {
		t.Fatal("genre must not be renamed")
	}
}

func TestGenreService_Update_NotFound(t *testing.T) {
	svc := NewGenreService(newStubGenreRepo(), newKeyedLocker(), discardLogger)

	if _, err := svc.Update(context.Background(), "missing", ports.GenreInput{Name: "genre2"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenreService_Delete(t *testing.T) {
	repo := newStubGenreRepo()
	repo.byID["g1"] = &domain.Genre{ID: "g1", Name: "genre1"}
	svc := NewGenreService(repo, newKeyedLocker(), discardLogger)

	g, err := svc.Delete(context.Background(), "g1")
	if err != nil || g.Name != "genre1" {
		t.Fatalf("unexpected result: %+v, %v", g, err)
	}
	if _, err := svc.Delete(context.Background(), "g1"); !errors.Is(err, domain.ErrGenreNotFound) {
		t.Fatalf("expected ErrGenreNotFound, got %v", err)
	}
}

func TestGenreService_List_SortedByName(t *testing.T) {
	repo := newStubGenreRepo()
	repo.byID["a"] = &domain.Genre{ID: "a", Name: "western"}
	repo.byID["b"] = &domain.Genre{ID: "b", Name: "action"}
	svc := NewGenreService(repo, newKeyedLocker(), discardLogger)

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].Name != "action" || list[1].Name != "western" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

// blindNameRepo hides existing names from the pre-check so that only the
// unique index can catch the duplicate.
type blindNameRepo struct{ *stubGenreRepo }

func (r *blindNameRepo) FindByName(context.Context, string) (*domain.Genre, error) {
	return nil, domain.ErrGenreNotFound
}
