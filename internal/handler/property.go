package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/rental-booking/internal/model"
)

// PropertyStore is the subset of repository.PropertyRepo used here.
type PropertyStore interface {
    GetProperty(ctx context.Context, id uint64) (*model.Property, error)
    List(ctx context.Context) ([]model.Property, error)
    ListByOwner(ctx context.Context, ownerID uint64) ([]model.Property, error)
    Create(ctx context.Context, p *model.Property) error
    Update(ctx context.Context, p *model.Property) error
    Delete(ctx context.Context, id uint64, ownerID uint64) error
}

// PropertyHandler serves the public catalog and owners' listing management.
type PropertyHandler struct {
    Properties PropertyStore
}

func NewPropertyHandler(store PropertyStore) *PropertyHandler {
    if store == nil {
        panic("nil store passed to NewPropertyHandler")
    }
    return &PropertyHandler{Properties: store}
}

// maxAmount is the largest value a DECIMAL(12,2) money column holds.
const maxAmount = 9999999999.99

type propertyReq struct {
    Title           string   `json:"title"`
    Description     string   `json:"description"`
    Address         string   `json:"address"`
    MonthlyRent     *float64 `json:"monthlyRent"`
    SecurityDeposit float64  `json:"securityDeposit"`
    Bedrooms        int      `json:"bedrooms"`
    Bathrooms       int      `json:"bathrooms"`
    ImageURL        *string  `json:"imageUrl"`
}

// toProperty validates the body and returns the property it describes.
func (r propertyReq) toProperty() (model.Property, string) {
    p := model.Property{
        Title:           strings.TrimSpace(r.Title),
        Description:     strings.TrimSpace(r.Description),
        Address:         strings.TrimSpace(r.Address),
        SecurityDeposit: r.SecurityDeposit,
        Bedrooms:        r.Bedrooms,
        Bathrooms:       r.Bathrooms,
    }
    if r.ImageURL != nil {
        if u := strings.TrimSpace(*r.ImageURL); u != "" {
            p.ImageURL = &u
        }
    }
    switch {
    case p.Title == "" || p.Address == "":
        return p, "title and address are required"
    case r.MonthlyRent == nil || *r.MonthlyRent < 0 || *r.MonthlyRent > maxAmount:
        return p, "monthlyRent must be between 0 and 9999999999.99"
    case p.SecurityDeposit < 0 || p.SecurityDeposit > maxAmount:
        return p, "securityDeposit must be between 0 and 9999999999.99"
    case p.Bedrooms < 0 || p.Bathrooms < 0:
        return p, "bedrooms and bathrooms must be zero or more"
    }
    p.MonthlyRent = *r.MonthlyRent
    return p, ""
}

// List: GET /v1/properties
func (h *PropertyHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    items, err := h.Properties.List(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get: GET /v1/properties/:id
func (h *PropertyHandler) Get(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    p, err := h.Properties.GetProperty(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// Create: POST /v1/properties (OWNER).  The owner is the caller.
func (h *PropertyHandler) Create(c echo.Context) error {
    me, err := identity(c)
    if err != nil {
        return writeError(c, err)
    }
    var req propertyReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    p, msg := req.toProperty()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    p.OwnerID = me.UserID
    p.OwnerName = me.Name

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if err := h.Properties.Create(ctx, &p); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, p)
}

// Update: PUT/PATCH /v1/properties/:id (OWNER of the property).
func (h *PropertyHandler) Update(c echo.Context) error {
    me, err := identity(c)
    if err != nil {
        return writeError(c, err)
    }
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req propertyReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    p, msg := req.toProperty()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    p.ID = id
    p.OwnerID = me.UserID
    p.OwnerName = me.Name

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if err := h.Properties.Update(ctx, &p); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// Delete: DELETE /v1/properties/:id (OWNER, only without bookings).
func (h *PropertyHandler) Delete(c echo.Context) error {
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
    if err := h.Properties.Delete(ctx, id, me.UserID); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ListMine: GET /v1/owner/properties
func (h *PropertyHandler) ListMine(c echo.Context) error {
    me, err := identity(c)
    if err != nil {
        return writeError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    items, err := h.Properties.ListByOwner(ctx, me.UserID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
