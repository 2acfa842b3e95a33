package handler

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/condominio-auth/internal/model"
)

func TestOptionalDistinguishesNullFromAbsent(t *testing.T) {
    var req updateUsuarioReq
    require.NoError(t, json.Unmarshal([]byte(`{"telefono": null, "first_name": "Ana"}`), &req))

    in := req.input()
    assert.True(t, in.Phone.Set)
    assert.Nil(t, in.Phone.Value)
    assert.False(t, in.UnitID.Set)
    require.NotNil(t, in.FirstName)
    assert.Equal(t, "Ana", *in.FirstName)

    req = updateUsuarioReq{}
    require.NoError(t, json.Unmarshal([]byte(`{"vivienda": 12}`), &req))
    in = req.input()
    assert.True(t, in.UnitID.Set)
    require.NotNil(t, in.UnitID.Value)
    assert.Equal(t, uint64(12), *in.UnitID.Value)
    assert.False(t, in.Phone.Set)
}

func TestAccountView(t *testing.T) {
    unit := uint64(4)
    a := model.Account{ID: 9, Username: "ana", Email: "ana@condominio.test", PasswordHash: "secret-hash"}
    a.SetRole(model.RoleContador)
    a.SetActive(true)
    a.Profile.UnitID = &unit

    bs, err := json.Marshal(toView(a))
    require.NoError(t, err)
    var got map[string]any
    require.NoError(t, json.Unmarshal(bs, &got))

    assert.Equal(t, "ana", got["nombre_completo"])
    assert.Equal(t, "CONTADOR", got["rol"])
    assert.Equal(t, float64(4), got["vivienda"])
    assert.Nil(t, got["telefono"])
    assert.Equal(t, true, got["activo"])
    assert.NotContains(t, string(bs), "secret-hash")
}
