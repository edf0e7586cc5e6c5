package handler // handler defines http handlers

import (
    "errors"
    "log"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/rental-booking/internal/booking"
    "github.com/iliyamo/rental-booking/internal/middleware"
    "github.com/iliyamo/rental-booking/internal/repository"
    "github.com/iliyamo/rental-booking/internal/utils"
)

var errNoIdentity = errors.New("missing identity in context")

// identity returns the caller set by JWTAuth.
func identity(c echo.Context) (utils.Identity, error) {
    id, ok := middleware.IdentityFrom(c)
    if !ok {
        return utils.Identity{}, errNoIdentity
    }
    return id, nil
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}

// writeError maps domain and repository errors to a JSON response.
func writeError(c echo.Context, err error) error {
    var ve *booking.ValidationError
    var te *booking.TransitionError
    switch {
    case errors.As(err, &ve):
        status := http.StatusBadRequest
        if ve == booking.ErrPropertyNotFound {
            status = http.StatusNotFound
        }
        return c.JSON(status, echo.Map{"error": ve.Message, "code": ve.Code})
    case errors.As(err, &te):
        status := http.StatusBadRequest
        if te == booking.ErrAlreadyFinalized {
            status = http.StatusConflict
        }
        return c.JSON(status, echo.Map{"error": te.Message, "code": te.Code})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, repository.ErrPropertyNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
    case errors.Is(err, repository.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
    case errors.Is(err, errNoIdentity):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
