package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/model"
)

// Deps carries what route registration needs besides the handlers.
// Limit and Cache may be nil.
type Deps struct {
	JWTSecret string
	Limit     echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// chains builds the middleware lists applied per route.  Rate limiting
// runs after JWTAuth so that buckets can be keyed by user.
type chains struct {
	public   []echo.MiddlewareFunc
	cached   []echo.MiddlewareFunc
	anyRole  []echo.MiddlewareFunc
	owner    []echo.MiddlewareFunc
	customer []echo.MiddlewareFunc
}

func newChains(d Deps) chains {
	auth := func(roles ...string) []echo.MiddlewareFunc {
		m := []echo.MiddlewareFunc{middleware.JWTAuth(d.JWTSecret), middleware.RequireRole(roles...)}
		return appendNonNil(m, d.Limit)
	}
	return chains{
		public:   appendNonNil(nil, d.Limit),
		cached:   appendNonNil(appendNonNil(nil, d.Limit), d.Cache),
		anyRole:  auth(model.RoleOwner, model.RoleCustomer),
		owner:    auth(model.RoleOwner),
		customer: auth(model.RoleCustomer),
	}
}

func appendNonNil(m []echo.MiddlewareFunc, mw echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if mw == nil {
		return m
	}
	return append(m, mw)
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Register wires every API route.
func Register(e *echo.Echo, d Deps, a *handler.AuthHandler, p *handler.PropertyHandler, b *handler.BookingHandler) {
	RegisterRoutes(e)
	ch := newChains(d)
	registerAuth(e, ch, a)
	registerProperties(e, ch, p)
	registerBookings(e, ch, b)
}

func registerAuth(e *echo.Echo, ch chains, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register, ch.public...)
	g.POST("/login", a.Login, ch.public...)
	g.POST("/refresh", a.Refresh, ch.public...) // rotates the refresh token
	g.POST("/logout", a.Logout, ch.public...)

	e.GET("/v1/me", a.Me, ch.anyRole...)
}
