package handler

import (
    "context"
    "fmt"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/condominio-auth/internal/apierr"
    "github.com/iliyamo/condominio-auth/internal/middleware"
    "github.com/iliyamo/condominio-auth/internal/service"
)

// UsuarioHandler serves the /usuarios account administration endpoints.
type UsuarioHandler struct {
    Accounts *service.AccountService
}

func NewUsuarioHandler(accounts *service.AccountService) *UsuarioHandler {
    return &UsuarioHandler{Accounts: accounts}
}

type createUsuarioReq struct {
    Username  string  `json:"username" validate:"required,notblank,max=150"`
    Email     string  `json:"email" validate:"required,email,max=254"`
    Password  string  `json:"password" validate:"required"`
    Password2 string  `json:"password2" validate:"required"`
    FirstName string  `json:"first_name" validate:"max=150"`
    LastName  string  `json:"last_name" validate:"max=150"`
    Rol       string  `json:"rol"`
    Telefono  *string `json:"telefono" validate:"omitempty,max=20"`
    Vivienda  *uint64 `json:"vivienda"`
}

// updateUsuarioReq is shared by PUT and PATCH.  rol and passwords are not
// accepted here; unknown fields are ignored.
type updateUsuarioReq struct {
    Username  *string          `json:"username" validate:"omitempty,notblank,max=150"`
    Email     *string          `json:"email" validate:"omitempty,email,max=254"`
    FirstName *string          `json:"first_name" validate:"omitempty,max=150"`
    LastName  *string          `json:"last_name" validate:"omitempty,max=150"`
    Telefono  optional[string] `json:"telefono"`
    Vivienda  optional[uint64] `json:"vivienda"`
    Activo    *bool            `json:"activo"`
}

type cambiarRolReq struct {
    Rol string `json:"rol"`
}

func (r updateUsuarioReq) input() service.UpdateAccountInput {
    return service.UpdateAccountInput{
        Username:  r.Username,
        Email:     r.Email,
        FirstName: r.FirstName,
        LastName:  r.LastName,
        Phone:     r.Telefono.patch(),
        UnitID:    r.Vivienda.patch(),
        Active:    r.Activo,
    }
}

// pathID parses the :id parameter.  Anything that is not a positive
// integer cannot name an account.
func pathID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, service.ErrNotFound
    }
    return id, nil
}

func actorID(c echo.Context) uint64 {
    a, _ := middleware.CurrentAccount(c)
    return a.ID
}

// List returns every account.
func (h *UsuarioHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    accounts, err := h.Accounts.List(ctx)
    if err != nil {
        return apierr.Write(c, err)
    }
    return c.JSON(http.StatusOK, toViews(accounts))
}

// Publico is the unauthenticated account listing.
func (h *UsuarioHandler) Publico(c echo.Context) error {
    return h.List(c)
}

// Create registers a new account.
func (h *UsuarioHandler) Create(c echo.Context) error {
    var req createUsuarioReq
    if err := bindAndValidate(c, &req); err != nil {
        return apierr.Write(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    account, err := h.Accounts.Create(ctx, actorID(c), service.CreateAccountInput{
        Username:        req.Username,
        Email:           req.Email,
        Password:        req.Password,
        PasswordConfirm: req.Password2,
        FirstName:       req.FirstName,
        LastName:        req.LastName,
        Role:            req.Rol,
        Phone:           req.Telefono,
        UnitID:          req.Vivienda,
    })
    if err != nil {
        return apierr.Write(c, err)
    }
    return c.JSON(http.StatusCreated, toView(account))
}

// Get returns one account.
func (h *UsuarioHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return apierr.Write(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    account, err := h.Accounts.Get(ctx, id)
    if err != nil {
        return apierr.Write(c, err)
    }
    return c.JSON(http.StatusOK, toView(account))
}

// Replace is PUT: a full replacement of the editable fields.
func (h *UsuarioHandler) Replace(c echo.Context) error { return h.update(c, true) }

// Patch is PATCH: only the submitted fields change.
func (h *UsuarioHandler) Patch(c echo.Context) error { return h.update(c, false) }

func (h *UsuarioHandler) update(c echo.Context, full bool) error {
    id, err := pathID(c)
    if err != nil {
        return apierr.Write(c, err)
    }
    var req updateUsuarioReq
    if err := bindAndValidate(c, &req); err != nil {
        return apierr.Write(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    account, err := h.Accounts.Update(ctx, actorID(c), id, req.input(), full)
    if err != nil {
        return apierr.Write(c, err)
    }
    return c.JSON(http.StatusOK, toView(account))
}

// Delete removes an account.
func (h *UsuarioHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return apierr.Write(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    if err := h.Accounts.Delete(ctx, actorID(c), id); err != nil {
        return apierr.Write(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// CambiarRol assigns a new role to another account.
func (h *UsuarioHandler) CambiarRol(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return apierr.Write(c, err)
    }
    var req cambiarRolReq
    if err := c.Bind(&req); err != nil {
        return apierr.Write(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    account, err := h.Accounts.ChangeRole(ctx, actorID(c), id, req.Rol)
    if err != nil {
        return apierr.Write(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": fmt.Sprintf("Rol actualizado a %s", account.Profile.Role.Label()),
        "usuario": toView(account),
    })
}
