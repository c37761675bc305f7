package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/vidly/rental-system/internal/api/handler"
	"github.com/vidly/rental-system/internal/api/middleware"
	"github.com/vidly/rental-system/internal/core/ports"
)

// Deps carries everything the router wires into handlers and guards.
type Deps struct {
	Log    zerolog.Logger
	Tokens middleware.TokenParser
	// Limiter throttles POST /api/auth. Nil disables throttling.
	Limiter ports.RateLimiter
	Probes  []handler.Probe

	Genres    ports.GenreService
	Movies    ports.MovieService
	Customers ports.CustomerService
	Rentals   ports.RentalService
	Returns   ports.ReturnService
	Auth      ports.AuthService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))

	// --- Guards ---
	auth := middleware.Auth(d.Tokens)
	admin := middleware.Admin()
	id := middleware.ObjectID("id")

	// --- Handlers ---
	genres := handler.NewGenreHandler(d.Genres)
	movies := handler.NewMovieHandler(d.Movies)
	customers := handler.NewCustomerHandler(d.Customers)
	rentals := handler.NewRentalHandler(d.Rentals)
	returns := handler.NewReturnHandler(d.Returns)
	users := handler.NewAuthHandler(d.Auth)
	health := handler.NewHealthHandler()
	ready := handler.NewHealthDependenciesHandler(d.Probes...)

	e.GET("/", health.Home)

	api := e.Group("/api")

	api.GET("/genres", genres.List)
	api.GET("/genres/:id", genres.Get, id)
	api.POST("/genres", genres.Create, auth)
	api.PUT("/genres/:id", genres.Update, auth, id)
	api.DELETE("/genres/:id", genres.Delete, auth, admin, id)

	api.GET("/movies", movies.List)
	api.GET("/movies/:id", movies.Get, id)
	api.POST("/movies", movies.Create, auth)
	api.PUT("/movies/:id", movies.Update, auth, id)
	api.DELETE("/movies/:id", movies.Delete, auth, admin, id)

	api.GET("/customers", customers.List, auth)
	api.GET("/customers/:id", customers.Get, auth, id)
	api.POST("/customers", customers.Create, auth)
	api.PUT("/customers/:id", customers.Update, auth, id)
	api.DELETE("/customers/:id", customers.Delete, auth, admin, id)

	api.GET("/rentals", rentals.List, auth)
	api.GET("/rentals/:id", rentals.Get, auth, id)
	api.POST("/rentals", rentals.Checkout, auth)
	api.DELETE("/rentals/:id", rentals.Delete, auth, admin, id)

	api.POST("/returns", returns.Return, auth)

	api.POST("/users", users.Register)
	api.GET("/users/me", users.Me, auth)

	if d.Limiter != nil {
		api.POST("/auth", users.Login, middleware.LoginRateLimit(d.Limiter, d.Log))
	} else {
		api.POST("/auth", users.Login)
	}

	// --- Health probes (no auth required) ---
	e.GET("/health", health.Liveness)       // liveness  – is the process alive?
	e.GET("/health/ready", ready.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
