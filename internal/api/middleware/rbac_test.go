package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

func TestAdmin_Allows(t *testing.T) {
	c, rec := newContext(nil)
	c.Set(CtxIsAdmin, true)

	if err := Admin()(okHandler)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdmin_Forbidden(t *testing.T) {
	for name, set := range map[string]func(c echo.Context){
		"not admin":  func(c echo.Context) { c.Set(CtxIsAdmin, false) },
		"no claims":  func(echo.Context) {},
		"wrong type": func(c echo.Context) { c.Set(CtxIsAdmin, "true") },
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(nil)
			set(c)

			err := Admin()(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})(c)
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

type stubLimiter struct {
	decision ports.RateDecision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func (s *stubLimiter) Limit() int { return 10 }

func TestLoginRateLimit_Allows(t *testing.T) {
	limiter := &stubLimiter{decision: ports.RateDecision{Allowed: true, Remaining: 9}}
	c, rec := newContext(func(r *http.Request) { r.Header.Set(echo.HeaderXRealIP, "10.0.0.7") })

	if err := LoginRateLimit(limiter, zerolog.Nop())(okHandler)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "10.0.0.7" {
		t.Fatalf("expected key by client ip, got %v", limiter.keys)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "9" {
		t.Fatalf("remaining header not set: %v", rec.Header())
	}
}

func TestLoginRateLimit_Throttles(t *testing.T) {
	limiter := &stubLimiter{decision: ports.RateDecision{Allowed: false, RetryAfter: 1500 * time.Millisecond}}
	c, rec := newContext(nil)

	err := LoginRateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if rec.Header().Get("Retry-After") != "2" {
		t.Fatalf("expected Retry-After 2, got %q", rec.Header().Get("Retry-After"))
	}
}

func TestLoginRateLimit_FailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}
	c, rec := newContext(nil)

	if err := LoginRateLimit(limiter, zerolog.Nop())(okHandler)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
