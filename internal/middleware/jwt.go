package middleware // middleware holds the shared request processing for handlers

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/rental-booking/internal/utils"
)

// Context keys populated by JWTAuth.
const (
    CtxIdentity = "identity"
    CtxUserID   = "user_id"
    CtxRole     = "role"
)

// JWTAuth validates a Bearer access token and stores the bearer's identity
// in the context.  Handlers read it with IdentityFrom; RequireRole reads
// the role key.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            id, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(CtxIdentity, id)
            c.Set(CtxUserID, id.UserID)
            c.Set(CtxRole, id.Role)
            return next(c)
        }
    }
}
