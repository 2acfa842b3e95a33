package handler

import (
    "encoding/json"

    "github.com/iliyamo/condominio-auth/internal/model"
    "github.com/iliyamo/condominio-auth/internal/service"
)

// profileView is the nested "perfil" object of an account.
type profileView struct {
    Rol      model.Role `json:"rol"`
    Telefono *string    `json:"telefono"`
    Vivienda *uint64    `json:"vivienda"`
    Activo   bool       `json:"activo"`
}

// accountView is the public JSON shape of an account.  It never carries the
// password hash.
type accountView struct {
    ID             uint64      `json:"id"`
    Username       string      `json:"username"`
    Email          string      `json:"email"`
    FirstName      string      `json:"first_name"`
    LastName       string      `json:"last_name"`
    NombreCompleto string      `json:"nombre_completo"`
    Rol            model.Role  `json:"rol"`
    Telefono       *string     `json:"telefono"`
    Vivienda       *uint64     `json:"vivienda"`
    Activo         bool        `json:"activo"`
    Perfil         profileView `json:"perfil"`
}

func toView(a model.Account) accountView {
    return accountView{
        ID:             a.ID,
        Username:       a.Username,
        Email:          a.Email,
        FirstName:      a.FirstName,
        LastName:       a.LastName,
        NombreCompleto: a.FullName(),
        Rol:            a.Profile.Role,
        Telefono:       a.Profile.Phone,
        Vivienda:       a.Profile.UnitID,
        Activo:         a.Active(),
        Perfil: profileView{
            Rol:      a.Profile.Role,
            Telefono: a.Profile.Phone,
            Vivienda: a.Profile.UnitID,
            Activo:   a.Profile.Active,
        },
    }
}

func toViews(as []model.Account) []accountView {
    out := make([]accountView, 0, len(as))
    for _, a := range as {
        out = append(out, toView(a))
    }
    return out
}

// optional distinguishes an absent JSON field from an explicit null.
type optional[T any] struct {
    set   bool
    value *T
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
    o.set = true
    if string(b) == "null" {
        o.value = nil
        return nil
    }
    var v T
    if err := json.Unmarshal(b, &v); err != nil {
        return err
    }
    o.value = &v
    return nil
}

func (o optional[T]) patch() service.Patch[T] {
    return service.Patch[T]{Set: o.set, Value: o.value}
}
