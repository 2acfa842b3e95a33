package database

import (
	"context"
	"database/sql"
	"fmt"
)

// viviendas is owned by the resource layer; only the columns the auth
// module relies on are declared here, and only when the table is missing.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS viviendas (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		codigo VARCHAR(64) NOT NULL,
		activo TINYINT(1) NOT NULL DEFAULT 1,
		UNIQUE KEY uq_viviendas_codigo (codigo)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(150) NOT NULL,
		email VARCHAR(254) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(150) NOT NULL DEFAULT '',
		last_name VARCHAR(150) NOT NULL DEFAULT '',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		is_staff TINYINT(1) NOT NULL DEFAULT 0,
		is_superuser TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_accounts_username (username),
		UNIQUE KEY uq_accounts_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		account_id BIGINT UNSIGNED NOT NULL,
		rol VARCHAR(20) NOT NULL DEFAULT 'RESIDENTE',
		telefono VARCHAR(20) NULL,
		vivienda_id BIGINT UNSIGNED NULL,
		activo TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_profiles_account (account_id),
		CONSTRAINT fk_profiles_account FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE,
		CONSTRAINT fk_profiles_vivienda FOREIGN KEY (vivienda_id) REFERENCES viviendas(id) ON DELETE SET NULL,
		CONSTRAINT ck_profiles_rol CHECK (rol IN ('SUPER_ADMIN','ADMIN','CONTADOR','GUARDIA','RESIDENTE'))
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS token_blacklist (
		jti VARCHAR(64) NOT NULL PRIMARY KEY,
		account_id BIGINT UNSIGNED NOT NULL,
		expires_at DATETIME(6) NOT NULL,
		blacklisted_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS viviendas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		codigo TEXT NOT NULL UNIQUE,
		activo BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_staff BOOLEAN NOT NULL DEFAULT 0,
		is_superuser BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER NOT NULL UNIQUE REFERENCES accounts(id) ON DELETE CASCADE,
		rol TEXT NOT NULL DEFAULT 'RESIDENTE'
			CHECK (rol IN ('SUPER_ADMIN','ADMIN','CONTADOR','GUARDIA','RESIDENTE')),
		telefono TEXT NULL,
		vivienda_id INTEGER NULL REFERENCES viviendas(id) ON DELETE SET NULL,
		activo BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS token_blacklist (
		jti TEXT NOT NULL PRIMARY KEY,
		account_id INTEGER NOT NULL,
		expires_at DATETIME NOT NULL,
		blacklisted_at DATETIME NOT NULL
	)`,
}

// Migrate creates the auth tables if they do not exist.  Statements run one
// at a time because the MySQL driver rejects multi-statement Exec calls.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	var stmts []string
	switch d {
	case MySQL:
		stmts = mysqlSchema
	case SQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported driver %q", d)
	}
	for i, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}
