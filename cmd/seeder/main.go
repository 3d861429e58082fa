// Command seeder creates the first Administrator account on an empty
// database. It runs the migrations first and does nothing once any account
// exists.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/brandon3sican/to-system/config"
	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/pkg/database"
	"github.com/brandon3sican/to-system/pkg/jwt"
	applogger "github.com/brandon3sican/to-system/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	username := flag.String("username", "", "administrator username (overrides seed.admin_username)")
	password := flag.String("password", "", "administrator password (overrides seed.admin_password)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *username != "" {
		cfg.Seed.AdminUsername = *username
	}
	if *password != "" {
		cfg.Seed.AdminPassword = *password
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.Seed.AdminPassword == "" {
		return errors.New("seed.admin_password (HRIS_SEED_ADMIN_PASSWORD) or -password is required")
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repository.NewRepository(db)
	auth := service.NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, logger)
	return seedAdministrator(ctx, repo, auth, cfg.Seed, logger)
}

// seedAdministrator registers the first account with the Administrator role
func seedAdministrator(ctx context.Context, repo *repository.Repository, auth service.AuthService, seed config.SeedConfig, logger *zap.Logger) error {
	role, err := repo.Role.GetByName(ctx, model.RoleAdministrator)
	if err != nil {
		return fmt.Errorf("find %s role: %w", model.RoleAdministrator, err)
	}

	_, err = auth.Register(ctx, &dto.RegisterRequest{
		RoleID:               role.ID,
		Username:             seed.AdminUsername,
		Password:             seed.AdminPassword,
		PasswordConfirmation: seed.AdminPassword,
	})
	switch {
	case errors.Is(err, service.ErrRegistrationClosed):
		logger.Info("accounts already exist, nothing to seed")
		return nil
	case err != nil:
		return err
	}

	logger.Info("administrator created", zap.String("username", seed.AdminUsername))
	return nil
}
