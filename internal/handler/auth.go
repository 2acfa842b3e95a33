package handler

import (
    "context"  // provides context with cancellation for DB calls
    "net/http" // HTTP status codes and primitives
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/condominio-auth/internal/apierr"     // error -> JSON body mapping
    "github.com/iliyamo/condominio-auth/internal/middleware" // authenticated account lookup
    "github.com/iliyamo/condominio-auth/internal/service"    // credential, token and account services
)

const requestTimeout = 5 * time.Second

// AuthHandler bundles dependencies for the /auth endpoints.
type AuthHandler struct {
    Credentials *service.CredentialValidator
    Tokens      *service.TokenService
    Accounts    *service.AccountService
}

func NewAuthHandler(creds *service.CredentialValidator, tokens *service.TokenService, accounts *service.AccountService) *AuthHandler {
    return &AuthHandler{Credentials: creds, Tokens: tokens, Accounts: accounts}
}

// ----- DTOs -----

type loginReq struct {
    Username string `json:"username" validate:"required"`
    Password string `json:"password" validate:"required"`
}
type refreshReq struct {
    Refresh string `json:"refresh" validate:"required"`
}
type logoutReq struct {
    Refresh string `json:"refresh"`
}
type changePasswordReq struct {
    OldPassword  string `json:"old_password" validate:"required"`
    NewPassword  string `json:"new_password" validate:"required"`
    NewPassword2 string `json:"new_password2" validate:"required"`
}

type loginResp struct {
    Message       string      `json:"message"`
    Access        string      `json:"access"`
    Refresh       string      `json:"refresh"`
    AccessExpires time.Time   `json:"access_expires"`
    User          accountView `json:"user"`
}

// bindAndValidate decodes the body into dst and runs the registered validator.
func bindAndValidate(c echo.Context, dst interface{}) error {
    if err := c.Bind(dst); err != nil {
        return err
    }
    return c.Validate(dst)
}

// Login validates credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bindAndValidate(c, &req); err != nil {
        return apierr.Write(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    account, err := h.Credentials.Validate(ctx, req.Username, req.Password)
    if err != nil {
        return apierr.Write(c, err)
    }
    pair, err := h.Tokens.Issue(account)
    if err != nil {
        return apierr.Write(c, err)
    }
    return c.JSON(http.StatusOK, loginResp{
        Message:       "Login exitoso",
        Access:        pair.Access.Token,
        Refresh:       pair.Refresh.Raw,
        AccessExpires: pair.Access.Exp,
        User:          toView(account),
    })
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := bindAndValidate(c, &req); err != nil {
        return apierr.Write(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    access, err := h.Tokens.Refresh(ctx, req.Refresh)
    if err != nil {
        return apierr.Write(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"access": access.Token, "access_expires": access.Exp})
}

// Logout revokes the submitted refresh token.  It succeeds even when the
// token is missing, invalid or already revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req logoutReq
    if err := c.Bind(&req); err != nil {
        return apierr.Write(c, err)
    }
    account, _ := middleware.CurrentAccount(c)

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    if req.Refresh != "" {
        if err := h.Accounts.Logout(ctx, account, req.Refresh); err != nil {
            return apierr.Write(c, err)
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Logout exitoso"})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c echo.Context) error {
    account, ok := middleware.CurrentAccount(c)
    if !ok {
        return apierr.Unauthenticated(c)
    }
    return c.JSON(http.StatusOK, toView(account))
}

// ChangePassword replaces the caller's password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
    var req changePasswordReq
    if err := bindAndValidate(c, &req); err != nil {
        return apierr.Write(c, err)
    }
    account, _ := middleware.CurrentAccount(c)

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    if err := h.Accounts.ChangePassword(ctx, account.ID, req.OldPassword, req.NewPassword, req.NewPassword2); err != nil {
        return apierr.Write(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Contraseña cambiada exitosamente"})
}
