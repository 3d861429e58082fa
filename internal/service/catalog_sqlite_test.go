package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Directory catalogs against sqlite
// ═══════════════════════════════════════════════════════════

// catalogCase create/update one catalog entry by name
type catalogCase struct {
	name   string
	create func(ctx context.Context, name string) (string, error)
	update func(ctx context.Context, id, name string) error
}

func catalogCases(t *testing.T, repo *repository.Repository) []catalogCase {
	t.Helper()
	units := NewDivSecUnitService(repo, zap.NewNop())
	positions := NewPositionService(repo, zap.NewNop())
	statuses := NewEmploymentStatusService(repo, zap.NewNop())
	stations := NewOfficialStationService(repo, zap.NewNop())

	home, err := units.Create(context.Background(), &dto.DivSecUnitRequest{Name: "Records"})
	require.NoError(t, err)

	return []catalogCase{
		{
			name: "div/sec/unit",
			create: func(ctx context.Context, name string) (string, error) {
				u, err := units.Create(ctx, &dto.DivSecUnitRequest{Name: name})
				if err != nil {
					return "", err
				}
				return u.ID, nil
			},
			update: func(ctx context.Context, id, name string) error {
				_, err := units.Update(ctx, id, &dto.DivSecUnitRequest{Name: name, Description: "renamed"})
				return err
			},
		},
		{
			name: "position",
			create: func(ctx context.Context, name string) (string, error) {
				p, err := positions.Create(ctx, &dto.PositionRequest{Name: name, DivSecUnitID: home.ID})
				if err != nil {
					return "", err
				}
				return p.ID, nil
			},
			update: func(ctx context.Context, id, name string) error {
				_, err := positions.Update(ctx, id, &dto.PositionRequest{Name: name, DivSecUnitID: home.ID})
				return err
			},
		},
		{
			name: "employment status",
			create: func(ctx context.Context, name string) (string, error) {
				s, err := statuses.Create(ctx, &dto.EmploymentStatusRequest{Name: name})
				if err != nil {
					return "", err
				}
				return s.ID, nil
			},
			update: func(ctx context.Context, id, name string) error {
				_, err := statuses.Update(ctx, id, &dto.EmploymentStatusRequest{Name: name, Description: "renamed"})
				return err
			},
		},
		{
			name: "official station",
			create: func(ctx context.Context, name string) (string, error) {
				s, err := stations.Create(ctx, &dto.OfficialStationRequest{Name: name})
				if err != nil {
					return "", err
				}
				return s.ID, nil
			},
			update: func(ctx context.Context, id, name string) error {
				_, err := stations.Update(ctx, id, &dto.OfficialStationRequest{Name: name, Address: "Baguio City"})
				return err
			},
		},
	}
}

func TestCatalogs_NameUniqueness(t *testing.T) {
	_, repo := newSQLiteRepository(t)
	ctx := context.Background()

	for _, tc := range catalogCases(t, repo) {
		t.Run(tc.name, func(t *testing.T) {
			first, err := tc.create(ctx, "Alpha "+tc.name)
			require.NoError(t, err)
			second, err := tc.create(ctx, "Beta "+tc.name)
			require.NoError(t, err)

			_, err = tc.create(ctx, "Alpha "+tc.name)
			assert.ErrorIs(t, err, ErrNameTaken, "duplicate create")
			assertFieldError(t, err, "name")

			err = tc.update(ctx, second, "Alpha "+tc.name)
			assert.ErrorIs(t, err, ErrNameTaken, "rename onto another entry")
			assertFieldError(t, err, "name")

			assert.NoError(t, tc.update(ctx, first, "Alpha "+tc.name), "keeping its own name")
		})
	}
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if assert.ErrorAs(t, err, &verr) {
		assert.NotEmpty(t, verr.Fields[field])
	}
}

func TestCatalogs_UnitWithPositionCannotBeDeleted(t *testing.T) {
	_, repo := newSQLiteRepository(t)
	ctx := context.Background()
	units := NewDivSecUnitService(repo, zap.NewNop())
	positions := NewPositionService(repo, zap.NewNop())

	finance, err := units.Create(ctx, &dto.DivSecUnitRequest{Name: "Finance"})
	require.NoError(t, err)
	accountant, err := positions.Create(ctx, &dto.PositionRequest{Name: "Accountant", DivSecUnitID: finance.ID})
	require.NoError(t, err)

	err = units.Delete(ctx, finance.ID)
	require.ErrorIs(t, err, ErrDivSecUnitHasPositions)
	assert.Equal(t, "Cannot delete division/section/unit with assigned positions", err.Error())

	_, err = units.GetByID(ctx, finance.ID)
	require.NoError(t, err, "unit must survive the refused delete")

	require.NoError(t, positions.Delete(ctx, accountant.ID))
	require.NoError(t, units.Delete(ctx, finance.ID))
	_, err = units.GetByID(ctx, finance.ID)
	assert.ErrorIs(t, err, ErrDivSecUnitNotFound)
}

// ── malformed ids ──

func TestServices_MalformedIDIsNotFound(t *testing.T) {
	db, repo := newSQLiteRepository(t)
	c := seedSQLiteCatalog(t, db)
	ctx := context.Background()
	admin := &model.User{Username: "admin", RoleID: c.roles[model.RoleAdministrator].ID, Role: c.roles[model.RoleAdministrator]}

	const bad = "abc"
	_, err := NewDivSecUnitService(repo, zap.NewNop()).GetByID(ctx, bad)
	assert.ErrorIs(t, err, ErrDivSecUnitNotFound)
	_, err = NewPositionService(repo, zap.NewNop()).GetByID(ctx, bad)
	assert.ErrorIs(t, err, ErrPositionNotFound)
	_, err = NewEmploymentStatusService(repo, zap.NewNop()).GetByID(ctx, bad)
	assert.ErrorIs(t, err, ErrEmploymentStatusNotFound)
	_, err = NewOfficialStationService(repo, zap.NewNop()).GetByID(ctx, bad)
	assert.ErrorIs(t, err, ErrOfficialStationNotFound)
	_, err = NewEmployeeService(repo, zap.NewNop()).GetByID(ctx, bad)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	err = NewEmployeeService(repo, zap.NewNop()).Delete(ctx, bad)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	_, err = NewUserService(repo, plainHasher{}, zap.NewNop()).GetByID(ctx, bad)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = NewTravelOrderService(repo, zap.NewNop()).GetDetail(ctx, admin, bad)
	assert.ErrorIs(t, err, ErrTravelOrderNotFound)
}

func TestServices_MalformedReferenceIsFieldError(t *testing.T) {
	db, repo := newSQLiteRepository(t)
	c := seedSQLiteCatalog(t, db)
	ctx := context.Background()

	_, err := NewPositionService(repo, zap.NewNop()).Create(ctx, &dto.PositionRequest{Name: "Clerk", DivSecUnitID: "abc"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrInvalidReference.Error(), verr.Fields["div_sec_unit_id"])

	in := employeeInput(c, "Jose", "Rizal")
	in.PositionID = "abc"
	_, err = NewEmployeeService(repo, zap.NewNop()).Create(ctx, &in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrInvalidReference.Error(), verr.Fields["position_id"])
	assert.NotContains(t, verr.Fields, "div_sec_unit_id")
}
