package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/condominio-auth/internal/database"
	"github.com/iliyamo/condominio-auth/internal/model"
)

// AccountRepo is the Account Store: every read returns the account joined
// with its profile, every write touches both rows inside one transaction.
type AccountRepo struct {
	DB      *sql.DB
	Dialect database.Dialect
}

func NewAccountRepo(db *sql.DB, d database.Dialect) *AccountRepo {
	return &AccountRepo{DB: db, Dialect: d}
}

const accountSelect = `SELECT a.id, a.username, a.email, a.password_hash, a.first_name, a.last_name,
	a.is_active, a.is_staff, a.is_superuser, a.created_at, a.updated_at,
	p.id, p.rol, p.telefono, p.vivienda_id, p.activo, p.created_at, p.updated_at
	FROM accounts a JOIN profiles p ON p.account_id = a.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(s rowScanner) (model.Account, error) {
	var (
		a     model.Account
		role  string
		phone sql.NullString
		unit  sql.NullInt64
	)
	err := s.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.IsActive, &a.IsStaff, &a.IsSuperuser, &a.CreatedAt, &a.UpdatedAt,
		&a.Profile.ID, &role, &phone, &unit, &a.Profile.Active, &a.Profile.CreatedAt, &a.Profile.UpdatedAt)
	if err != nil {
		return model.Account{}, err
	}
	a.Profile.AccountID = a.ID
	a.Profile.Role = model.Role(role)
	if phone.Valid {
		p := phone.String
		a.Profile.Phone = &p
	}
	if unit.Valid {
		u := uint64(unit.Int64)
		a.Profile.UnitID = &u
	}
	return a, nil
}

// Create inserts the account and its profile in one transaction and returns
// the stored record.  Unique violations on username or email come back as
// ErrDuplicate; nothing is written in that case.
func (r *AccountRepo) Create(ctx context.Context, a model.Account) (model.Account, error) {
	a.Username = strings.TrimSpace(a.Username)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	now := time.Now().UTC()

	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (username, email, password_hash, first_name, last_name,
			 is_active, is_staff, is_superuser, created_at, updated_at)
			 VALUES (?,?,?,?,?,?,?,?,?,?)`,
			a.Username, a.Email, a.PasswordHash, a.FirstName, a.LastName,
			a.IsActive, a.IsStaff, a.IsSuperuser, now, now)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = uint64(id)

		res, err = tx.ExecContext(ctx,
			`INSERT INTO profiles (account_id, rol, telefono, vivienda_id, activo, created_at, updated_at)
			 VALUES (?,?,?,?,?,?,?)`,
			a.ID, string(a.Profile.Role), nullString(a.Profile.Phone), nullUint(a.Profile.UnitID),
			a.Profile.Active, now, now)
		if err != nil {
			return err
		}
		pid, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.Profile.ID = uint64(pid)
		return nil
	})
	if err != nil {
		return model.Account{}, translate(err)
	}
	a.CreatedAt, a.UpdatedAt = now, now
	a.Profile.AccountID = a.ID
	a.Profile.CreatedAt, a.Profile.UpdatedAt = now, now
	return a, nil
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx, accountSelect+" WHERE a.id = ? LIMIT 1", id))
	return a, translate(err)
}

// GetByUsername fetches an account by its exact username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx,
		accountSelect+" WHERE a.username = ? LIMIT 1", strings.TrimSpace(username)))
	return a, translate(err)
}

// List returns every account ordered by id.
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx, accountSelect+" ORDER BY a.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update loads the account inside a transaction, lets fn mutate it and
// writes both rows back before committing.  On MySQL the rows are locked
// for the duration; SQLite serializes writers on its own.  If fn returns an
// error nothing is written and the error is returned unchanged.
func (r *AccountRepo) Update(ctx context.Context, id uint64, fn func(a *model.Account) error) (model.Account, error) {
	q := accountSelect + " WHERE a.id = ?"
	if r.Dialect == database.MySQL {
		q += " FOR UPDATE"
	}
	var out model.Account
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		a, err := scanAccount(tx.QueryRowContext(ctx, q, id))
		if err != nil {
			return translate(err)
		}
		if err := fn(&a); err != nil {
			return err
		}
		a.Username = strings.TrimSpace(a.Username)
		a.Email = strings.ToLower(strings.TrimSpace(a.Email))
		now := time.Now().UTC()

		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET username=?, email=?, password_hash=?, first_name=?, last_name=?,
			 is_active=?, is_staff=?, is_superuser=?, updated_at=? WHERE id=?`,
			a.Username, a.Email, a.PasswordHash, a.FirstName, a.LastName,
			a.IsActive, a.IsStaff, a.IsSuperuser, now, a.ID); err != nil {
			return translate(err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET rol=?, telefono=?, vivienda_id=?, activo=?, updated_at=? WHERE account_id=?`,
			string(a.Profile.Role), nullString(a.Profile.Phone), nullUint(a.Profile.UnitID),
			a.Profile.Active, now, a.ID); err != nil {
			return translate(err)
		}
		a.UpdatedAt, a.Profile.UpdatedAt = now, now
		out = a
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}
	return out, nil
}

// Delete removes the profile and the account together.
func (r *AccountRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE account_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullUint(u *uint64) sql.NullInt64 {
	if u == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*u), Valid: true}
}
