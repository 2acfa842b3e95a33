package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/condominio-auth/internal/model"
)

// UnitRepo is the Housing Unit Reference lookup.  Units belong to the
// resource layer; this repository only answers existence questions and
// enforces that deleting a unit clears profile references instead of
// cascading into them.
type UnitRepo struct {
	db *sql.DB
}

func NewUnitRepo(db *sql.DB) *UnitRepo {
	return &UnitRepo{db: db}
}

// Create inserts a housing unit with the given code.
func (r *UnitRepo) Create(ctx context.Context, code string) (model.HousingUnit, error) {
	code = strings.TrimSpace(code)
	res, err := r.db.ExecContext(ctx, "INSERT INTO viviendas (codigo, activo) VALUES (?, ?)", code, true)
	if err != nil {
		return model.HousingUnit{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.HousingUnit{}, err
	}
	return model.HousingUnit{ID: uint64(id), Code: code, Active: true}, nil
}

// GetByID fetches a unit or returns ErrNotFound.
func (r *UnitRepo) GetByID(ctx context.Context, id uint64) (model.HousingUnit, error) {
	var u model.HousingUnit
	err := r.db.QueryRowContext(ctx, "SELECT id, codigo, activo FROM viviendas WHERE id = ?", id).
		Scan(&u.ID, &u.Code, &u.Active)
	return u, translate(err)
}

// Exists reports whether a unit with the given id is present.
func (r *UnitRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	_, err := r.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case err == ErrNotFound:
		return false, nil
	}
	return false, err
}

// Delete clears every profile reference to the unit and removes it.  The
// foreign key already does SET NULL; the explicit update keeps the rule
// intact on schemas created without it.
func (r *UnitRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE profiles SET vivienda_id = NULL WHERE vivienda_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM viviendas WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
