//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
	"github.com/brandon3sican/to-system/pkg/database"
)

// Runs the embedded migrations against a real PostgreSQL and checks the
// constraints the unit tests cannot see on SQLite.
//
//	TEST_DATABASE_DSN="host=localhost port=5433 user=hris password=hris dbname=hris_test sslmode=disable" \
//	  go test -tags integration ./internal/repository/...

func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db
}

func TestIntegration_SeededReferenceData(t *testing.T) {
	db := openPostgres(t)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	for _, name := range []string{model.RoleEmployee, model.RoleRecommender, model.RoleApprover, model.RoleAdministrator} {
		if _, err := repo.Role.GetByName(ctx, name); err != nil {
			t.Errorf("role %s not seeded: %v", name, err)
		}
	}
	if _, err := repo.EmploymentStatus.GetByName(ctx, model.EmploymentStatusActive); err != nil {
		t.Errorf("employment status Active not seeded: %v", err)
	}
	if _, err := repo.OfficialStation.GetByName(ctx, "DENR-CAR"); err != nil {
		t.Errorf("official station not seeded: %v", err)
	}
}

func TestIntegration_ForeignKeyRestrictsUnitDelete(t *testing.T) {
	db := openPostgres(t)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	suffix := time.Now().UnixNano()
	unit := &model.DivSecUnit{Name: fmt.Sprintf("Unit-%d", suffix)}
	if err := repo.DivSecUnit.Create(ctx, unit); err != nil {
		t.Fatalf("create unit: %v", err)
	}
	pos := &model.Position{Name: fmt.Sprintf("Pos-%d", suffix), DivSecUnitID: unit.ID}
	if err := repo.Position.Create(ctx, pos); err != nil {
		t.Fatalf("create position: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Position.Delete(ctx, pos.ID)
		_ = repo.DivSecUnit.Delete(ctx, unit.ID)
	})

	if err := repo.DivSecUnit.Delete(ctx, unit.ID); err == nil {
		t.Error("expected foreign key violation deleting a unit with positions")
	}
}

func TestIntegration_StatusCheckConstraint(t *testing.T) {
	db := openPostgres(t)

	err := db.Exec("UPDATE travel_orders SET status = 'Completed' WHERE 1 = 0").Error
	if err != nil {
		t.Fatalf("no-op update should succeed: %v", err)
	}

	var n int64
	db.Raw("SELECT COUNT(*) FROM information_schema.check_constraints WHERE constraint_name = 'ck_travel_orders_status'").Scan(&n)
	if n != 1 {
		t.Errorf("expected status check constraint, found %d", n)
	}
}
