package handler // declare the package name; contains HTTP handlers

import (
    "context"      // bounded database ping
    "database/sql" // connection pool being probed
    "net/http"     // net/http provides status codes and response helpers
    "time"         // ping timeout

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is the liveness/readiness probe.  It pings the database and returns
// 200 "ok", or 503 when the database does not answer within two seconds.
func Health(db *sql.DB) echo.HandlerFunc {
    return func(c echo.Context) error {
        if db != nil {
            ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
            defer cancel()
            if err := db.PingContext(ctx); err != nil {
                return c.String(http.StatusServiceUnavailable, "database unavailable")
            }
        }
        return c.String(http.StatusOK, "ok")
    }
}

// Info lists the public surface of the API.
func Info(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "name":    "Condominio API",
        "version": "1.0",
        "endpoints": echo.Map{
            "auth": []string{
                "POST /auth/login/",
                "POST /auth/token/refresh/",
                "POST /auth/logout/",
                "GET /auth/me/",
                "POST /auth/change-password/",
            },
            "usuarios": []string{
                "GET /usuarios/",
                "POST /usuarios/",
                "GET /usuarios/publico/",
                "GET /usuarios/{id}/",
                "PUT /usuarios/{id}/",
                "PATCH /usuarios/{id}/",
                "DELETE /usuarios/{id}/",
                "PUT /usuarios/{id}/cambiar-rol/",
            },
        },
    })
}
