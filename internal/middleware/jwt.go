package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context" // request scoped context passed to the authenticator
    "strings" // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/condominio-auth/internal/apierr" // shared JSON error bodies
    "github.com/iliyamo/condominio-auth/internal/model"  // Account type stored in the context
)

// Authenticator resolves a raw access token into the account it belongs to.
// service.TokenService satisfies it.
type Authenticator interface {
    Authenticate(ctx context.Context, raw string) (model.Account, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// stores the resolved account in the request context.  Signature, expiry,
// token type and revocation are all checked by the authenticator, which also
// reloads the account so that role and activation changes apply to the very
// next request.  Handlers read the result via CurrentAccount.
func JWTAuth(auth Authenticator) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return apierr.Unauthenticated(c)
            }
            raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
            if raw == "" {
                return apierr.Unauthenticated(c)
            }

            // Any failure here is a 401 (invalid, expired or revoked) or a
            // storage fault; apierr picks the status.
            account, err := auth.Authenticate(c.Request().Context(), raw)
            if err != nil {
                return apierr.Write(c, err)
            }

            // Store the account, its id and its role for downstream use.
            setAccount(c, account)
            return next(c)
        }
    }
}
