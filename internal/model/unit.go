package model

// HousingUnit is the minimal view of a `viviendas` row needed by the auth
// module.  The full record belongs to the resource layer.
type HousingUnit struct {
    ID     uint64 // viviendas.id
    Code   string // viviendas.codigo
    Active bool   // viviendas.activo
}
