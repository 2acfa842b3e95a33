package router // package router defines how HTTP routes are registered for the API

import (
	"context"      // request logger writes through slog with a background context
	"database/sql" // health probe pings the pool
	"log/slog"     // structured request logging

	"github.com/labstack/echo/v4"                    // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware" // stock recover / request logger / trailing slash middleware
	"github.com/redis/go-redis/v9"                   // shared client for rate limiting and caching

	"github.com/iliyamo/condominio-auth/internal/apierr"     // JSON error bodies for routing errors
	"github.com/iliyamo/condominio-auth/internal/config"     // rate limit and cache settings
	"github.com/iliyamo/condominio-auth/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/condominio-auth/internal/middleware" // JWT authentication, capability gate, rate limit, cache
	"github.com/iliyamo/condominio-auth/internal/policy"     // capabilities required per route
	"github.com/iliyamo/condominio-auth/internal/validator"  // request body validation
)

// Deps is everything the HTTP layer needs.  Redis may be nil, in which case
// rate limiting and caching are skipped.
type Deps struct {
	DB        *sql.DB
	Auth      *handler.AuthHandler
	Usuarios  *handler.UsuarioHandler
	Tokens    middleware.Authenticator
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *slog.Logger
}

// New builds the Echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	Setup(e, d.Log)
	RegisterRoutes(e, d.DB)
	RegisterAuth(e, d.Auth, d.Tokens, middleware.RateLimit(d.RateLimit, d.Redis))
	RegisterUsuarios(e, d.Usuarios, d.Tokens,
		middleware.ResponseCache(d.Cache, d.Redis),
		middleware.PurgeCacheOnWrite(d.Cache, d.Redis))
	return e
}

// Setup installs the cross-cutting pieces: trailing slash normalisation,
// validation, JSON error bodies, panic recovery and request logging.
func Setup(e *echo.Echo, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	// Clients call /auth/login/ and /auth/login alike; routes are registered
	// without the slash.
	e.Pre(echomw.RemoveTrailingSlash())
	e.Validator = validator.New()
	e.HTTPErrorHandler = apierr.Handler

	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.Any("err", v.Error))
			}
			log.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	}))
}

// RegisterRoutes registers the routes that need no authentication and no
// handler struct: the health probe and the API index.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	// Used by load balancers and monitoring to verify that the service and
	// its database are up.
	e.GET("/healthz", handler.Health(db))
	e.GET("/", handler.Info)
}

// RegisterAuth registers the /auth routes.  Login and refresh are public and
// sit behind the rate limiter; the rest require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens middleware.Authenticator, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth", limiter)

	// Token issuing endpoints.  No session exists yet.
	g.POST("/login", a.Login)
	g.POST("/token/refresh", a.Refresh)

	// Everything else runs JWTAuth, which reloads the account on every
	// request so the capability check always sees the current role.
	authenticated := []echo.MiddlewareFunc{
		middleware.JWTAuth(tokens),
		middleware.RequireCapability(policy.Authenticated),
	}
	g.POST("/logout", a.Logout, authenticated...)
	g.GET("/me", a.Me, authenticated...)
	g.POST("/change-password", a.ChangePassword, authenticated...)
}
