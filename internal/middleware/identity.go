package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/rental-booking/internal/utils"
)

// IdentityFrom returns the identity stored by JWTAuth.
func IdentityFrom(c echo.Context) (utils.Identity, bool) {
    id, ok := c.Get(CtxIdentity).(utils.Identity)
    return id, ok && id.UserID != 0
}

// subject identifies the caller for rate limiting: the user id when
// authenticated, "anon" otherwise.
func subject(c echo.Context) string {
    if id, ok := IdentityFrom(c); ok {
        return strconv.FormatUint(id.UserID, 10)
    }
    return "anon"
}
