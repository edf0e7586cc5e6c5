package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/handler"
)

// registerProperties maps the public catalog (served through the response
// cache) and the owner's listing management.
func registerProperties(e *echo.Echo, ch chains, p *handler.PropertyHandler) {
	e.GET("/v1/properties", p.List, ch.cached...)
	e.GET("/v1/properties/:id", p.Get, ch.cached...)

	e.POST("/v1/properties", p.Create, ch.owner...)
	e.PUT("/v1/properties/:id", p.Update, ch.owner...)
	e.PATCH("/v1/properties/:id", p.Update, ch.owner...)
	e.DELETE("/v1/properties/:id", p.Delete, ch.owner...)
	e.GET("/v1/owner/properties", p.ListMine, ch.owner...)
}
