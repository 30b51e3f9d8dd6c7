package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/studyspot-booking/internal/handler"
	"github.com/iliyamo/studyspot-booking/internal/middleware"
)

// RegisterRoutes registers the unauthenticated operational endpoints: the
// health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the guest session routes.  Login and logout need no
// token; /v1/me requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the catalog browse endpoints.  cache wraps them
// so repeated searches can be served from Redis.
func RegisterPublic(e *echo.Echo, s *handler.SpaceHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/spaces", s.List, cache)
	e.GET("/v1/spaces/:id", s.Get, cache)
}
