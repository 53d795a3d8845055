// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/cinema-seat-picker/internal/handler"
	"github.com/iliyamo/cinema-seat-picker/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication: the health
// check and, when gatherer is non-nil, the Prometheus exposition.
func RegisterRoutes(e *echo.Echo, gatherer prometheus.Gatherer) {
	e.GET("/healthz", handler.Health)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// RegisterSeats registers the public seat endpoints.  The rate limiter
// guards the endpoints that validate or mutate.
func RegisterSeats(e *echo.Echo, s *handler.SeatsHandler, rl echo.MiddlewareFunc) {
	g := e.Group("/v1/seats")
	g.GET("", s.GetSeats)
	g.POST("/check", s.Check, rl)
	g.POST("/order", s.Order, rl)
	g.POST("/allocate", s.Allocate, rl)
}

// RegisterOperator registers operator login and the JWT + role protected
// house administration endpoints.
func RegisterOperator(e *echo.Echo, o *handler.OperatorHandler, jwtSecret string, rl echo.MiddlewareFunc) {
	e.POST("/v1/auth/login", o.Login, rl)

	op := e.Group("/v1/operator")
	op.Use(middleware.JWTAuth(jwtSecret))
	op.Use(middleware.RequireRole(handler.RoleOperator))
	op.POST("/reset", o.Reset)
	op.POST("/scenario", o.Scenario)
}

// RegisterSimulations registers the simulation endpoints.  History reads go
// through the response cache.
func RegisterSimulations(e *echo.Echo, s *handler.SimulationHandler, rl, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/simulations")
	g.POST("", s.Run, rl)
	g.GET("", s.List, cache)
	g.GET("/:id", s.Get, cache)
}
