package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/rental-booking/internal/metrics"
)

// RequestMetrics observes request latency per route template and status.
func RequestMetrics() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            status := c.Response().Status
            if he, ok := err.(*echo.HTTPError); ok {
                status = he.Code
            }
            metrics.RequestDuration.
                WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
                Observe(time.Since(start).Seconds())
            return err
        }
    }
}
