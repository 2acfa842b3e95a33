package middleware

// identity.go holds the helpers that move the authenticated account in and
// out of the Echo context.  JWTAuth writes three keys: "account" (the full
// model.Account), "user_id" (uint64) and "role" (model.Role).

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/condominio-auth/internal/model"
)

const (
    accountKey = "account"
    userIDKey  = "user_id"
    roleKey    = "role"
)

func setAccount(c echo.Context, a model.Account) {
    c.Set(accountKey, a)
    c.Set(userIDKey, a.ID)
    c.Set(roleKey, a.Profile.Role)
}

// CurrentAccount returns the account resolved by JWTAuth.
func CurrentAccount(c echo.Context) (model.Account, bool) {
    a, ok := c.Get(accountKey).(model.Account)
    return a, ok
}

// userID returns the authenticated account id as a string, or "guest" when
// the request carries no identity.  Used to build rate-limit keys.
func userID(c echo.Context) string {
    if id, ok := c.Get(userIDKey).(uint64); ok && id != 0 {
        return strconv.FormatUint(id, 10)
    }
    return "guest"
}
