package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/condominio-auth/internal/apierr" // shared JSON error bodies
    "github.com/iliyamo/condominio-auth/internal/policy" // capability evaluation
)

// RequireCapability returns a middleware that lets the request through only
// when the authenticated account's role satisfies the capability.  It must
// run after JWTAuth for anything other than policy.Public.  The decision is
// taken on every request from the role JWTAuth just loaded, so nothing is
// cached across requests.
func RequireCapability(required policy.Capability) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if required == policy.Public {
                return next(c)
            }
            account, ok := CurrentAccount(c)
            if !ok {
                // No JWTAuth in front of this route, or it was skipped.
                return apierr.Unauthenticated(c)
            }
            if !policy.Authorize(account.Profile.Role, required) {
                return c.JSON(http.StatusForbidden, echo.Map{
                    "error":  "forbidden",
                    "detail": "you do not have permission to perform this action",
                })
            }
            return next(c)
        }
    }
}
