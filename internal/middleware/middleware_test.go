package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/condominio-auth/internal/config"
    "github.com/iliyamo/condominio-auth/internal/model"
    "github.com/iliyamo/condominio-auth/internal/policy"
    "github.com/iliyamo/condominio-auth/internal/service"
)

type fakeAuth map[string]model.Account

func (f fakeAuth) Authenticate(_ context.Context, raw string) (model.Account, error) {
    if a, ok := f[raw]; ok {
        return a, nil
    }
    if raw == "revoked" {
        return model.Account{}, service.ErrTokenRevoked
    }
    return model.Account{}, service.ErrTokenInvalid
}

func account(id uint64, role model.Role) model.Account {
    a := model.Account{ID: id, Username: "user"}
    a.SetRole(role)
    a.SetActive(true)
    return a
}

func serve(t *testing.T, auth Authenticator, required policy.Capability, header string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    e.GET("/x", func(c echo.Context) error {
        a, ok := CurrentAccount(c)
        require.True(t, ok)
        return c.String(http.StatusOK, a.Profile.Role.String()+":"+userID(c))
    }, JWTAuth(auth), RequireCapability(required))

    req := httptest.NewRequest(http.MethodGet, "/x", nil)
    if header != "" {
        req.Header.Set("Authorization", header)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuthAndCapabilities(t *testing.T) {
    auth := fakeAuth{
        "root":  account(1, model.RoleSuperAdmin),
        "admin": account(2, model.RoleAdmin),
        "res":   account(3, model.RoleResidente),
    }

    cases := []struct {
        name     string
        header   string
        required policy.Capability
        status   int
    }{
        {"missing header", "", policy.Authenticated, http.StatusUnauthorized},
        {"not bearer", "Basic abc", policy.Authenticated, http.StatusUnauthorized},
        {"invalid token", "Bearer nope", policy.Authenticated, http.StatusUnauthorized},
        {"revoked token", "Bearer revoked", policy.Authenticated, http.StatusUnauthorized},
        {"resident authenticated", "Bearer res", policy.Authenticated, http.StatusOK},
        {"resident admin route", "Bearer res", policy.AdminOrAbove, http.StatusForbidden},
        {"admin admin route", "Bearer admin", policy.AdminOrAbove, http.StatusOK},
        {"admin super route", "Bearer admin", policy.SuperAdminOnly, http.StatusForbidden},
        {"root super route", "Bearer root", policy.SuperAdminOnly, http.StatusOK},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec := serve(t, auth, tc.required, tc.header)
            assert.Equal(t, tc.status, rec.Code, rec.Body.String())
        })
    }

    rec := serve(t, auth, policy.AdminOrAbove, "Bearer admin")
    assert.Equal(t, "ADMIN:2", rec.Body.String())
}

func TestRequireCapabilityWithoutAuth(t *testing.T) {
    e := echo.New()
    ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
    e.GET("/open", ok, RequireCapability(policy.Public))
    e.GET("/closed", ok, RequireCapability(policy.Authenticated))

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
    assert.Equal(t, http.StatusNoContent, rec.Code)

    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/closed", nil))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateKeyStrategies(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
    req.RemoteAddr = "10.1.2.3:5555"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/auth/login")

    cfg := config.RateLimitConfig{Prefix: "condo:rl", KeyStrategy: "ip_route"}
    assert.Equal(t, "condo:rl:ip:10.1.2.3:route:POST /auth/login", rateKey(cfg, c))

    cfg.KeyStrategy = "user"
    assert.Equal(t, "condo:rl:user:guest", rateKey(cfg, c))
    setAccount(c, account(7, model.RoleGuardia))
    assert.Equal(t, "condo:rl:user:7", rateKey(cfg, c))
}

func TestParseDecision(t *testing.T) {
    d, ok := parseDecision([]interface{}{int64(0), int64(0), int64(1500)})
    require.True(t, ok)
    assert.False(t, d.Allowed)
    assert.Equal(t, int64(1500), d.RetryMs)

    _, ok = parseDecision("nope")
    assert.False(t, ok)
}

func TestMiddlewaresWithoutRedisPassThrough(t *testing.T) {
    e := echo.New()
    e.GET("/usuarios/publico", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
        RateLimit(config.RateLimitConfig{Enabled: true}, nil),
        ResponseCache(config.CacheConfig{Enabled: true}, nil),
        PurgeCacheOnWrite(config.CacheConfig{Enabled: true}, nil))

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usuarios/publico", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCacheEntryRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": []string{"application/json"}}
    bs, err := encodeEntry(http.StatusOK, hdr, []byte(`[]`))
    require.NoError(t, err)

    status, got, body, ok := decodeEntry(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", got.Get("Content-Type"))
    assert.Equal(t, `[]`, string(body))

    _, _, _, ok = decodeEntry([]byte{0, 1})
    assert.False(t, ok)
}
