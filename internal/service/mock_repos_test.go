package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
	pkgerrors "github.com/brandon3sican/to-system/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// In-memory repositories. No database: BeginTx yields a nil tx,
// so services run their transactional paths without commit/rollback.
// ═══════════════════════════════════════════════════════════

type mocks struct {
	role     *mockRoleRepo
	unit     *mockDivSecUnitRepo
	position *mockPositionRepo
	status   *mockEmploymentStatusRepo
	station  *mockOfficialStationRepo
	employee *mockEmployeeRepo
	user     *mockUserRepo
	order    *mockTravelOrderRepo
	dash     *mockDashboardRepo
}

func newMockRepository() (*repository.Repository, *mocks) {
	m := &mocks{
		role:     &mockRoleRepo{roles: map[string]*model.Role{}, userCounts: map[string]int64{}},
		unit:     &mockDivSecUnitRepo{units: map[string]*model.DivSecUnit{}, positionCounts: map[string]int64{}, employeeCounts: map[string]int64{}},
		position: &mockPositionRepo{positions: map[string]*model.Position{}, employeeCounts: map[string]int64{}},
		status:   &mockEmploymentStatusRepo{statuses: map[string]*model.EmploymentStatus{}, employeeCounts: map[string]int64{}},
		station:  &mockOfficialStationRepo{stations: map[string]*model.OfficialStation{}, orderCounts: map[string]int64{}},
		order:    &mockTravelOrderRepo{orders: map[string]*model.TravelOrder{}},
		dash:     &mockDashboardRepo{byStatus: map[model.TravelOrderStatus]int64{}},
	}
	m.user = &mockUserRepo{users: map[string]*model.User{}, roles: m.role}
	m.employee = &mockEmployeeRepo{employees: map[string]*model.Employee{}, orderCounts: map[string]int64{}, users: m.user}
	return mocksRepository(m), m
}

func mocksRepository(m *mocks) *repository.Repository {
	return &repository.Repository{
		Role:             m.role,
		DivSecUnit:       m.unit,
		Position:         m.position,
		EmploymentStatus: m.status,
		OfficialStation:  m.station,
		Employee:         m.employee,
		User:             m.user,
		TravelOrder:      m.order,
		Dashboard:        m.dash,
	}
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// newMockID stable uuid per (prefix, name), shaped like a database key
func newMockID(prefix, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(prefix+"/"+name)).String()
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	roles      map[string]*model.Role
	userCounts map[string]int64
}

func (m *mockRoleRepo) add(name string) *model.Role {
	r := &model.Role{Name: name}
	_ = m.Create(context.Background(), r)
	return r
}

func (m *mockRoleRepo) Create(_ context.Context, role *model.Role) error {
	if role.ID == "" {
		role.ID = newMockID("role", role.Name)
	}
	m.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepo) GetByID(_ context.Context, id string) (*model.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) GetByName(_ context.Context, name string) (*model.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) List(ctx context.Context, offset, limit int) ([]model.Role, int64, error) {
	all, _ := m.ListAll(ctx)
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockRoleRepo) ListAll(_ context.Context) ([]model.Role, error) {
	var out []model.Role
	for _, r := range m.roles {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRoleRepo) Update(_ context.Context, role *model.Role) error {
	m.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepo) Delete(_ context.Context, id string) error {
	delete(m.roles, id)
	return nil
}

func (m *mockRoleRepo) CountUsers(_ context.Context, roleID string) (int64, error) {
	return m.userCounts[roleID], nil
}

// ── Mock DivSecUnitRepository ──

type mockDivSecUnitRepo struct {
	units          map[string]*model.DivSecUnit
	positionCounts map[string]int64
	employeeCounts map[string]int64
}

func (m *mockDivSecUnitRepo) Create(_ context.Context, unit *model.DivSecUnit) error {
	if unit.ID == "" {
		unit.ID = newMockID("unit", unit.Name)
	}
	m.units[unit.ID] = unit
	return nil
}

func (m *mockDivSecUnitRepo) GetByID(_ context.Context, id string) (*model.DivSecUnit, error) {
	if u, ok := m.units[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDivSecUnitRepo) GetByName(_ context.Context, name string) (*model.DivSecUnit, error) {
	for _, u := range m.units {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDivSecUnitRepo) List(ctx context.Context, offset, limit int) ([]model.DivSecUnit, int64, error) {
	all, _ := m.ListAll(ctx)
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockDivSecUnitRepo) ListAll(_ context.Context) ([]model.DivSecUnit, error) {
	var out []model.DivSecUnit
	for _, u := range m.units {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockDivSecUnitRepo) Update(_ context.Context, unit *model.DivSecUnit) error {
	m.units[unit.ID] = unit
	return nil
}

func (m *mockDivSecUnitRepo) Delete(_ context.Context, id string) error {
	delete(m.units, id)
	return nil
}

func (m *mockDivSecUnitRepo) CountPositions(_ context.Context, id string) (int64, error) {
	return m.positionCounts[id], nil
}

func (m *mockDivSecUnitRepo) CountEmployees(_ context.Context, id string) (int64, error) {
	return m.employeeCounts[id], nil
}

// ── Mock PositionRepository ──

type mockPositionRepo struct {
	positions      map[string]*model.Position
	employeeCounts map[string]int64
}

func (m *mockPositionRepo) Create(_ context.Context, p *model.Position) error {
	if p.ID == "" {
		p.ID = newMockID("position", p.Name)
	}
	m.positions[p.ID] = p
	return nil
}

func (m *mockPositionRepo) GetByID(_ context.Context, id string) (*model.Position, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPositionRepo) GetByName(_ context.Context, name string) (*model.Position, error) {
	for _, p := range m.positions {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPositionRepo) List(ctx context.Context, offset, limit int) ([]model.Position, int64, error) {
	all, _ := m.ListAll(ctx)
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockPositionRepo) ListAll(_ context.Context) ([]model.Position, error) {
	var out []model.Position
	for _, p := range m.positions {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockPositionRepo) Update(_ context.Context, p *model.Position) error {
	m.positions[p.ID] = p
	return nil
}

func (m *mockPositionRepo) Delete(_ context.Context, id string) error {
	delete(m.positions, id)
	return nil
}

func (m *mockPositionRepo) CountEmployees(_ context.Context, id string) (int64, error) {
	return m.employeeCounts[id], nil
}

// ── Mock EmploymentStatusRepository ──

type mockEmploymentStatusRepo struct {
	statuses       map[string]*model.EmploymentStatus
	employeeCounts map[string]int64
}

func (m *mockEmploymentStatusRepo) Create(_ context.Context, s *model.EmploymentStatus) error {
	if s.ID == "" {
		s.ID = newMockID("status", s.Name)
	}
	m.statuses[s.ID] = s
	return nil
}

func (m *mockEmploymentStatusRepo) GetByID(_ context.Context, id string) (*model.EmploymentStatus, error) {
	if s, ok := m.statuses[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmploymentStatusRepo) GetByName(_ context.Context, name string) (*model.EmploymentStatus, error) {
	for _, s := range m.statuses {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmploymentStatusRepo) List(ctx context.Context, offset, limit int) ([]model.EmploymentStatus, int64, error) {
	all, _ := m.ListAll(ctx)
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockEmploymentStatusRepo) ListAll(_ context.Context) ([]model.EmploymentStatus, error) {
	var out []model.EmploymentStatus
	for _, s := range m.statuses {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockEmploymentStatusRepo) Update(_ context.Context, s *model.EmploymentStatus) error {
	m.statuses[s.ID] = s
	return nil
}

func (m *mockEmploymentStatusRepo) Delete(_ context.Context, id string) error {
	delete(m.statuses, id)
	return nil
}

func (m *mockEmploymentStatusRepo) CountEmployees(_ context.Context, id string) (int64, error) {
	return m.employeeCounts[id], nil
}

// ── Mock OfficialStationRepository ──

type mockOfficialStationRepo struct {
	stations    map[string]*model.OfficialStation
	orderCounts map[string]int64
}

func (m *mockOfficialStationRepo) Create(_ context.Context, s *model.OfficialStation) error {
	if s.ID == "" {
		s.ID = newMockID("station", s.Name)
	}
	m.stations[s.ID] = s
	return nil
}

func (m *mockOfficialStationRepo) GetByID(_ context.Context, id string) (*model.OfficialStation, error) {
	if s, ok := m.stations[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfficialStationRepo) GetByName(_ context.Context, name string) (*model.OfficialStation, error) {
	for _, s := range m.stations {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfficialStationRepo) List(ctx context.Context, offset, limit int) ([]model.OfficialStation, int64, error) {
	all, _ := m.ListAll(ctx)
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockOfficialStationRepo) ListAll(_ context.Context) ([]model.OfficialStation, error) {
	var out []model.OfficialStation
	for _, s := range m.stations {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockOfficialStationRepo) Update(_ context.Context, s *model.OfficialStation) error {
	m.stations[s.ID] = s
	return nil
}

func (m *mockOfficialStationRepo) Delete(_ context.Context, id string) error {
	delete(m.stations, id)
	return nil
}

func (m *mockOfficialStationRepo) CountTravelOrders(_ context.Context, id string) (int64, error) {
	return m.orderCounts[id], nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees   map[string]*model.Employee
	orderCounts map[string]int64
	users       *mockUserRepo
	seq         int
}

func (m *mockEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	for _, other := range m.employees {
		if other.FirstName == e.FirstName && other.LastName == e.LastName {
			return gorm.ErrDuplicatedKey
		}
	}
	if e.ID == "" {
		m.seq++
		e.ID = newMockID("employee", strconv.Itoa(m.seq))
	}
	m.employees[e.ID] = e
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByFullName(_ context.Context, first, last string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.FirstName == first && e.LastName == last {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(ctx context.Context, filters *repository.EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error) {
	all, _ := m.ListAll(ctx)
	var out []model.Employee
	for _, e := range all {
		if filters != nil && filters.Search != "" &&
			!strings.Contains(strings.ToLower(e.FirstName+" "+e.MiddleName+" "+e.LastName), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, e)
	}
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockEmployeeRepo) ListAll(_ context.Context) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range m.employees {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (m *mockEmployeeRepo) ListWithoutAccount(ctx context.Context) ([]model.Employee, error) {
	all, _ := m.ListAll(ctx)
	var out []model.Employee
	for _, e := range all {
		if _, err := m.users.GetByEmployeeID(ctx, e.ID); err != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	m.employees[e.ID] = e
	return nil
}

func (m *mockEmployeeRepo) UpdateName(_ context.Context, id, first, last string) error {
	e, ok := m.employees[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.FirstName, e.LastName = first, last
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string) error {
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) CountTravelOrders(_ context.Context, id string) (int64, error) {
	return m.orderCounts[id], nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	roles *mockRoleRepo
	seq   int
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	for _, other := range m.users {
		if other.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == "" {
		m.seq++
		u.ID = newMockID("user", strconv.Itoa(m.seq))
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) withRole(u *model.User) *model.User {
	if u.Role == nil {
		if r, ok := m.roles.roles[u.RoleID]; ok {
			u.Role = r
		}
	}
	return u
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return m.withRole(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return m.withRole(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.User, error) {
	for _, u := range m.users {
		if u.EmployeeID != nil && *u.EmployeeID == employeeID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range m.users {
		out = append(out, *m.withRole(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockUserRepo) Update(_ context.Context, u *model.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) CountByRoleName(_ context.Context, roleName string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if r, ok := m.roles.roles[u.RoleID]; ok && r.Name == roleName {
			n++
		}
	}
	return n, nil
}

// ── Mock TravelOrderRepository ──

type mockTravelOrderRepo struct {
	orders map[string]*model.TravelOrder
	logs   []model.TravelOrderLog
	seq    int
	// beforeUpdate runs inside UpdateWorkflow before the compare-and-set
	beforeUpdate func()
}

func (m *mockTravelOrderRepo) Create(_ context.Context, o *model.TravelOrder) error {
	for _, other := range m.orders {
		if other.TONumber == o.TONumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if o.ID == "" {
		m.seq++
		o.ID = newMockID("order", strconv.Itoa(m.seq))
	}
	stored := *o
	m.orders[o.ID] = &stored
	return nil
}

func (m *mockTravelOrderRepo) GetByID(_ context.Context, id string) (*model.TravelOrder, error) {
	if o, ok := m.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTravelOrderRepo) GetDetail(ctx context.Context, id string) (*model.TravelOrder, error) {
	o, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Logs, _ = m.ListLogs(ctx, id)
	return o, nil
}

func (m *mockTravelOrderRepo) List(_ context.Context, f *repository.TravelOrderListFilters, offset, limit int) ([]model.TravelOrder, int64, error) {
	var out []model.TravelOrder
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.OwnerUserID != "" || f.OwnerEmployeeID != "" {
			mine := (o.CreatedBy != nil && *o.CreatedBy == f.OwnerUserID) || o.EmployeeID == f.OwnerEmployeeID
			if !mine {
				continue
			}
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TONumber > out[j].TONumber })
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockTravelOrderRepo) UpdateWorkflow(_ context.Context, o *model.TravelOrder, from model.TravelOrderStatus) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	stored, ok := m.orders[o.ID]
	if !ok || stored.Version != o.Version || stored.Status != from {
		return pkgerrors.ErrOptimisticLock
	}
	o.Version++
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockTravelOrderRepo) NextTONumber(_ context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("%d-", year)
	n := 0
	for _, o := range m.orders {
		if strings.HasPrefix(o.TONumber, prefix) {
			n++
		}
	}
	return fmt.Sprintf("%s%03d", prefix, n+1), nil
}

func (m *mockTravelOrderRepo) CreateLog(_ context.Context, l *model.TravelOrderLog) error {
	m.logs = append(m.logs, *l)
	return nil
}

func (m *mockTravelOrderRepo) ListLogs(_ context.Context, orderID string) ([]model.TravelOrderLog, error) {
	var out []model.TravelOrderLog
	for _, l := range m.logs {
		if l.TravelOrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ── Mock DashboardRepository ──

type mockDashboardRepo struct {
	employees int64
	activity  repository.UserActivityCounts
	byStatus  map[model.TravelOrderStatus]int64
	completed int64
	recent    []model.TravelOrder
}

func (m *mockDashboardRepo) CountEmployees(_ context.Context) (int64, error) {
	return m.employees, nil
}

func (m *mockDashboardRepo) CountUsersByActivity(_ context.Context) (*repository.UserActivityCounts, error) {
	a := m.activity
	return &a, nil
}

func (m *mockDashboardRepo) CountTravelOrdersByStatus(_ context.Context) (map[model.TravelOrderStatus]int64, error) {
	return m.byStatus, nil
}

func (m *mockDashboardRepo) CountCompletedTravelOrders(_ context.Context, _ time.Time) (int64, error) {
	return m.completed, nil
}

func (m *mockDashboardRepo) ListRecentTravelOrders(_ context.Context, limit int) ([]model.TravelOrder, error) {
	return page(m.recent, 0, limit), nil
}
