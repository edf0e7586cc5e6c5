package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/handler"
)

// registerBookings maps quoting (public), submission and lookup
// (customers) and decisions (owners).
func registerBookings(e *echo.Echo, ch chains, b *handler.BookingHandler) {
	e.POST("/v1/bookings/quote", b.Quote, ch.public...)

	e.POST("/v1/bookings", b.Submit, ch.customer...)
	e.GET("/v1/my-bookings", b.ListMine, ch.customer...)
	e.GET("/v1/bookings/:id", b.GetMine, ch.customer...)

	e.GET("/v1/owner/bookings", b.ListForOwner, ch.owner...)
	e.PUT("/v1/bookings/:id/status", b.UpdateStatus, ch.owner...)
}
