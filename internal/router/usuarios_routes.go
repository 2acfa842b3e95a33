package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/condominio-auth/internal/handler"
	"github.com/iliyamo/condominio-auth/internal/middleware"
	"github.com/iliyamo/condominio-auth/internal/policy"
)

// RegisterUsuarios registers the account administration endpoints.  The
// public listing is served through the response cache; every successful
// write purges that cache.
func RegisterUsuarios(e *echo.Echo, u *handler.UsuarioHandler, tokens middleware.Authenticator, cache, purge echo.MiddlewareFunc) {
	g := e.Group("/usuarios")

	// Static route; echo matches it before /usuarios/:id.
	g.GET("/publico", u.Publico, middleware.RequireCapability(policy.Public), cache)

	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(tokens),
		middleware.RequireCapability(policy.AdminOrAbove),
		purge,
	}
	g.GET("", u.List, admin...)
	g.POST("", u.Create, admin...)
	g.GET("/:id", u.Get, admin...)
	g.PUT("/:id", u.Replace, admin...)
	g.PATCH("/:id", u.Patch, admin...)
	g.DELETE("/:id", u.Delete, admin...)

	// Role changes are reserved to SUPER_ADMIN; the service checks again
	// against the stored actor.
	g.PUT("/:id/cambiar-rol", u.CambiarRol,
		middleware.JWTAuth(tokens),
		middleware.RequireCapability(policy.SuperAdminOnly),
		purge,
	)
}
