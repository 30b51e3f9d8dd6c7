package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studyspot-booking/internal/auth"
	"github.com/iliyamo/studyspot-booking/internal/handler"
	"github.com/iliyamo/studyspot-booking/internal/middleware"
)

// RegisterBookings registers the booking endpoints under /v1.  All routes
// require a valid JWT for a guest user.  Writes additionally pass through
// limiter.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	authn := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireUserType(auth.GuestType),
	}
	writes := append(authn[:len(authn):len(authn)], limiter)

	e.POST("/v1/bookings", h.Create, writes...)
	e.GET("/v1/my-bookings", h.Mine, authn...)
	e.GET("/v1/bookings/:id", h.Get, authn...)
	e.DELETE("/v1/bookings/:id", h.Cancel, writes...)
}
