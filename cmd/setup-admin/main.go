// Command setup-admin creates the initial SUPER_ADMIN account, or promotes
// and reactivates the existing account with the configured username.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iliyamo/condominio-auth/internal/config"
	"github.com/iliyamo/condominio-auth/internal/database"
	"github.com/iliyamo/condominio-auth/internal/logger"
	"github.com/iliyamo/condominio-auth/internal/repository"
	"github.com/iliyamo/condominio-auth/internal/service"
)

func main() {
	cfg := config.Load()
	admin := config.LoadAdminConfig()
	log := logger.Init(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dialect := database.Dialect(cfg.DBDriver)
	db, err := database.Open(ctx, database.Options{
		Driver: dialect,
		User:   cfg.DBUser,
		Pass:   cfg.DBPass,
		Host:   cfg.DBHost,
		Port:   cfg.DBPort,
		Name:   cfg.DBName,
		Path:   cfg.DBPath,
	})
	if err != nil {
		logger.Fatal("database connection failed", "err", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, dialect); err != nil {
		logger.Fatal("schema migration failed", "err", err)
	}

	accountRepo := repository.NewAccountRepo(db, dialect)
	accounts := service.NewAccountService(accountRepo, repository.NewUnitRepo(db), nil,
		service.NewPasswordPolicy(cfg.PasswordMinLen), service.NopPublisher{}, cfg.BcryptCost, log)

	a, created, err := accounts.EnsureSuperAdmin(ctx, service.AdminInput{
		Username:  admin.Username,
		Email:     admin.Email,
		Password:  admin.Password,
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
	})
	if err != nil {
		logger.Fatal("setup-admin failed", "err", err)
	}

	if created {
		log.Info("super admin created", slog.Uint64("id", a.ID), slog.String("username", a.Username))
	} else {
		log.Info("existing account promoted to super admin", slog.Uint64("id", a.ID), slog.String("username", a.Username))
	}
	fmt.Printf("usuario: %s\nemail: %s\nrol: %s\n", a.Username, a.Email, a.Profile.Role.Label())
}
