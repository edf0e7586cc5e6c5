package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/rental-booking/internal/booking"
    "github.com/iliyamo/rental-booking/internal/model"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
    Bookings *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Bookings: svc}
}

type quoteResp struct {
    PropertyID     uint64     `json:"propertyId"`
    CheckInDate    model.Date `json:"checkInDate"`
    CheckOutDate   model.Date `json:"checkOutDate"`
    NumberOfGuests int        `json:"numberOfGuests"`
    Nights         int        `json:"nights"`
    TotalCost      int64      `json:"totalCost"`
}

type statusReq struct {
    Status string `json:"status"`
}

// Quote: POST /v1/bookings/quote.  Prices a stay without saving it.
func (h *BookingHandler) Quote(c echo.Context) error {
    var req booking.Request
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    stay, cost, err := h.Bookings.Quote(ctx, req)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, quoteResp{
        PropertyID:     req.PropertyID,
        CheckInDate:    stay.CheckIn,
        CheckOutDate:   stay.CheckOut,
        NumberOfGuests: stay.Guests,
        Nights:         stay.Nights,
        TotalCost:      cost,
    })
}

// Submit: POST /v1/bookings (CUSTOMER).  The booking is always filed under
// the caller's email; name defaults to the account name.
func (h *BookingHandler) Submit(c echo.Context) error {
    me, err := identity(c)
    if err != nil {
        return writeError(c, err)
    }
    var req booking.Request
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.CustomerEmail = me.Email
    if strings.TrimSpace(req.CustomerName) == "" {
        req.CustomerName = me.Name
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    b, err := h.Bookings.Submit(ctx, req)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, b)
}

// ListMine: GET /v1/my-bookings (CUSTOMER)
func (h *BookingHandler) ListMine(c echo.Context) error {
    me, err := identity(c)
    if err != nil {
        return writeError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    items, err := h.Bookings.ListForCustomer(ctx, me.Email)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMine: GET /v1/bookings/:id (CUSTOMER who made it)
func (h *BookingHandler) GetMine(c echo.Context) error {
    me, err := identity(c)
    if err != nil {
        return writeError(c, err)
    }
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    b, err := h.Bookings.GetForCustomer(ctx, id, me.Email)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}

// ListForOwner: GET /v1/owner/bookings (OWNER)
func (h *BookingHandler) ListForOwner(c echo.Context) error {
    me, err := identity(c)
    if err != nil {
        return writeError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    items, err := h.Bookings.ListForOwner(ctx, me.UserID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateStatus: PUT /v1/bookings/:id/status (OWNER of the property).
// Deciding an already decided booking returns 409 with the booking as it
// stands.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
    me, err := identity(c)
    if err != nil {
        return writeError(c, err)
    }
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req statusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    target := model.BookingStatus(strings.ToUpper(strings.TrimSpace(req.Status)))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    b, err := h.Bookings.Transition(ctx, id, target, me.UserID)
    if errors.Is(err, booking.ErrAlreadyFinalized) {
        return c.JSON(http.StatusConflict, echo.Map{
            "error": booking.ErrAlreadyFinalized.Message,
            "code":  booking.ErrAlreadyFinalized.Code,
            "item":  b,
        })
    }
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}
