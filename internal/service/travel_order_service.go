package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
	pkgerrors "github.com/brandon3sican/to-system/pkg/errors"
)

var (
	ErrTravelOrderNotFound  = errors.New("Travel order not found.")
	ErrTransitionNotAllowed = errors.New("This travel order cannot change to that status.")
	ErrActionNotPermitted   = errors.New("You are not allowed to perform this action.")
	ErrNoEmployeeProfile    = errors.New("Your account is not linked to an employee record.")
	ErrTONumberExhausted    = errors.New("Could not assign a travel order number. Please try again.")
)

// TransitionError an action fired from a status it is not defined for
type TransitionError struct {
	Action string // past tense: "recommended", "approved", ...
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("This travel order cannot be %s in its current status.", e.Action)
}

func (e *TransitionError) Unwrap() error { return ErrTransitionNotAllowed }

// Workflow actions accepted by Transition
const (
	TransitionRecommend = "recommend"
	TransitionApprove   = "approve"
	TransitionReject    = "reject"
	TransitionCancel    = "cancel"
)

// ═══════════════════════════════════════════════════════════
// Transition table
// ═══════════════════════════════════════════════════════════
//
//   recommend  Pending      → Recommended  Recommender
//   approve    Recommended  → Approved     Approver
//   reject     Pending      → Rejected     Recommender
//              Recommended  → Rejected     Approver
//   cancel     Pending      → Cancelled    creator
//              Recommended  → Cancelled    creator
//
// Administrator may fire every row. Rejected, Cancelled and Approved are final.

type transition struct {
	logAction string
	to        model.TravelOrderStatus
	// from status → roles allowed to fire the action from it
	from       map[model.TravelOrderStatus][]string
	creatorMay bool
}

var transitions = map[string]transition{
	TransitionRecommend: {
		logAction: model.ActionRecommended,
		to:        model.TravelOrderRecommended,
		from: map[model.TravelOrderStatus][]string{
			model.TravelOrderPending: {model.RoleRecommender},
		},
	},
	TransitionApprove: {
		logAction: model.ActionApproved,
		to:        model.TravelOrderApproved,
		from: map[model.TravelOrderStatus][]string{
			model.TravelOrderRecommended: {model.RoleApprover},
		},
	},
	TransitionReject: {
		logAction: model.ActionRejected,
		to:        model.TravelOrderRejected,
		from: map[model.TravelOrderStatus][]string{
			model.TravelOrderPending:     {model.RoleRecommender},
			model.TravelOrderRecommended: {model.RoleApprover},
		},
	},
	TransitionCancel: {
		logAction:  model.ActionCancelled,
		to:         model.TravelOrderCancelled,
		creatorMay: true,
		from: map[model.TravelOrderStatus][]string{
			model.TravelOrderPending:     nil,
			model.TravelOrderRecommended: nil,
		},
	},
}

// transitionOrder fixed order for rendering action buttons
var transitionOrder = []string{TransitionRecommend, TransitionApprove, TransitionReject, TransitionCancel}

// permits reports whether actor may fire t from status
func (t transition) permits(actor *model.User, order *model.TravelOrder, status model.TravelOrderStatus) bool {
	roles, ok := t.from[status]
	if !ok {
		return false
	}
	if actor.IsAdministrator() || actor.HasRole(roles...) {
		return true
	}
	return t.creatorMay && order.CreatedBy != nil && *order.CreatedBy == actor.ID
}

// privilegedRoles see every travel order; everyone else only their own
var privilegedRoles = []string{model.RoleAdministrator, model.RoleRecommender, model.RoleApprover}

// TravelOrderService travel order filing, workflow and exports
type TravelOrderService interface {
	List(ctx context.Context, actor *model.User, req *dto.TravelOrderListRequest) ([]model.TravelOrder, int64, error)
	FormData(ctx context.Context, actor *model.User) (*dto.TravelOrderFormData, error)
	Create(ctx context.Context, actor *model.User, req *dto.CreateTravelOrderRequest) (*model.TravelOrder, error)
	// GetDetail order with people, station and chronological log
	GetDetail(ctx context.Context, actor *model.User, id string) (*model.TravelOrder, error)
	// Transition fires one of the Transition* actions
	Transition(ctx context.Context, actor *model.User, id, action string, req *dto.TravelOrderActionRequest) (*model.TravelOrder, error)
	// AvailableActions actions actor may fire on order right now
	AvailableActions(actor *model.User, order *model.TravelOrder) []string
	// ExportICS single-event calendar for the trip
	ExportICS(ctx context.Context, actor *model.User, id string) ([]byte, string, error)
}

type travelOrderService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewTravelOrderService creates a TravelOrderService
func NewTravelOrderService(repo *repository.Repository, logger *zap.Logger) TravelOrderService {
	return &travelOrderService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── List ──────────────────────

func (s *travelOrderService) List(ctx context.Context, actor *model.User, req *dto.TravelOrderListRequest) ([]model.TravelOrder, int64, error) {
	filters := &repository.TravelOrderListFilters{
		Search:       strings.TrimSpace(req.Search),
		DivSecUnitID: strings.TrimSpace(req.DivSecUnitID),
	}
	if st := model.TravelOrderStatus(req.Status); st.Valid() {
		filters.Status = st
	}
	if !actor.HasRole(privilegedRoles...) {
		filters.OwnerUserID = actor.ID
		if actor.EmployeeID != nil {
			filters.OwnerEmployeeID = *actor.EmployeeID
		}
	}

	orders, total, err := s.repo.TravelOrder.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list travel orders failed", zap.Error(err))
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *travelOrderService) FormData(ctx context.Context, actor *model.User) (*dto.TravelOrderFormData, error) {
	stations, err := s.repo.OfficialStation.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	units, err := s.repo.DivSecUnit.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	data := &dto.TravelOrderFormData{CanPickEmployee: actor.IsAdministrator()}
	for _, st := range stations {
		data.OfficialStations = append(data.OfficialStations, dto.Option{ID: st.ID, Label: st.Name})
	}
	for _, u := range units {
		data.DivSecUnits = append(data.DivSecUnits, dto.Option{ID: u.ID, Label: u.Name})
	}
	if data.CanPickEmployee {
		employees, err := s.repo.Employee.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		for i := range employees {
			data.Employees = append(data.Employees, dto.Option{ID: employees[i].ID, Label: employees[i].FullName()})
		}
	}
	return data, nil
}

// ═══════════════════════════════════════════════════════════
// Create
// ═══════════════════════════════════════════════════════════
//
// Number, order row and "created" log share one transaction. Two filings
// racing for the same number lose on the unique index; the loser retries
// with a fresh number.

const toNumberAttempts = 3

func (s *travelOrderService) Create(ctx context.Context, actor *model.User, req *dto.CreateTravelOrderRequest) (*model.TravelOrder, error) {
	req.Destination = strings.TrimSpace(req.Destination)
	req.Purpose = strings.TrimSpace(req.Purpose)
	req.Appropriation = strings.TrimSpace(req.Appropriation)
	req.Remarks = strings.TrimSpace(req.Remarks)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	departure, arrival, ret, err := parseTripDates(req)
	if err != nil {
		return nil, err
	}

	employeeID, err := s.resolveTraveler(ctx, actor, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.OfficialStation.GetByID(ctx, req.OfficialStationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newFieldError("official_station_id", ErrInvalidReference)
		}
		return nil, err
	}

	creator := actor.ID
	order := &model.TravelOrder{
		EmployeeID:        employeeID,
		OfficialStationID: req.OfficialStationID,
		Destination:       req.Destination,
		Purpose:           req.Purpose,
		DepartureDate:     departure,
		ArrivalDate:       arrival,
		ReturnDate:        ret,
		PerDiem:           req.PerDiem,
		Assistant:         req.Assistant,
		Appropriation:     req.Appropriation,
		Status:            model.TravelOrderPending,
		Remarks:           req.Remarks,
		CreatedBy:         &creator,
	}
	order.Version = 1

	for attempt := 1; attempt <= toNumberAttempts; attempt++ {
		err = s.createNumbered(ctx, actor, order)
		if err == nil {
			s.logger.Info("travel order filed",
				zap.String("id", order.ID),
				zap.String("to_number", order.TONumber),
				zap.String("by", actor.ID),
			)
			return order, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		s.logger.Warn("travel order number collision, retrying",
			zap.String("to_number", order.TONumber), zap.Int("attempt", attempt))
		order.ID = ""
	}
	return nil, ErrTONumberExhausted
}

func (s *travelOrderService) createNumbered(ctx context.Context, actor *model.User, order *model.TravelOrder) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	txRepo := s.repo.WithTx(tx)

	fail := func(err error) error {
		if tx != nil {
			tx.Rollback()
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Error("create travel order failed", zap.Error(err))
		}
		return err
	}

	number, err := txRepo.TravelOrder.NextTONumber(ctx, s.now().Year())
	if err != nil {
		return fail(err)
	}
	order.TONumber = number

	if err := txRepo.TravelOrder.Create(ctx, order); err != nil {
		return fail(err)
	}
	performer := actor.ID
	if err := txRepo.TravelOrder.CreateLog(ctx, &model.TravelOrderLog{
		TravelOrderID: order.ID,
		ActionType:    model.ActionCreated,
		PerformedBy:   &performer,
	}); err != nil {
		return fail(err)
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit travel order failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// resolveTraveler administrators file for anyone, everyone else for themselves
func (s *travelOrderService) resolveTraveler(ctx context.Context, actor *model.User, requested string) (string, error) {
	if !actor.IsAdministrator() {
		if actor.EmployeeID == nil {
			return "", ErrNoEmployeeProfile
		}
		return *actor.EmployeeID, nil
	}

	requested = strings.TrimSpace(requested)
	if requested == "" {
		if actor.EmployeeID != nil {
			return *actor.EmployeeID, nil
		}
		return "", newFieldError("employee_id", errors.New("The employee field is required."))
	}
	if _, err := s.repo.Employee.GetByID(ctx, requested); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", newFieldError("employee_id", ErrInvalidReference)
		}
		return "", err
	}
	return requested, nil
}

// parseTripDates enforces departure ≤ arrival ≤ return
func parseTripDates(req *dto.CreateTravelOrderRequest) (departure, arrival, ret time.Time, err error) {
	if departure, err = time.Parse(dateLayout, req.DepartureDate); err != nil {
		return departure, arrival, ret, newFieldError("departure_date", errors.New("The departure date is not a valid date."))
	}
	if arrival, err = time.Parse(dateLayout, req.ArrivalDate); err != nil {
		return departure, arrival, ret, newFieldError("arrival_date", errors.New("The arrival date is not a valid date."))
	}
	if ret, err = time.Parse(dateLayout, req.ReturnDate); err != nil {
		return departure, arrival, ret, newFieldError("return_date", errors.New("The return date is not a valid date."))
	}
	fields := map[string]string{}
	if arrival.Before(departure) {
		fields["arrival_date"] = "The arrival date must be on or after the departure date."
	}
	if ret.Before(arrival) {
		fields["return_date"] = "The return date must be on or after the arrival date."
	}
	if len(fields) > 0 {
		return departure, arrival, ret, &ValidationError{Fields: fields}
	}
	return departure, arrival, ret, nil
}

// ────────────────────── GetDetail ──────────────────────

func (s *travelOrderService) GetDetail(ctx context.Context, actor *model.User, id string) (*model.TravelOrder, error) {
	order, err := s.repo.TravelOrder.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTravelOrderNotFound
		}
		s.logger.Error("get travel order failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !canView(actor, order) {
		// hide existence from users who may not see it
		return nil, ErrTravelOrderNotFound
	}
	return order, nil
}

func canView(actor *model.User, order *model.TravelOrder) bool {
	if actor.HasRole(privilegedRoles...) {
		return true
	}
	if order.CreatedBy != nil && *order.CreatedBy == actor.ID {
		return true
	}
	return actor.EmployeeID != nil && *actor.EmployeeID == order.EmployeeID
}

// ═══════════════════════════════════════════════════════════
// Transition
// ═══════════════════════════════════════════════════════════
//
// 1. load the order, look up the action row
// 2. action undefined for the current status → TransitionError
//    (ErrActionNotPermitted when the actor could never fire it)
// 3. one transaction: compare-and-set on (status, version), then the log row
//    A concurrent change surfaces as pkg/errors.ErrOptimisticLock.

func (s *travelOrderService) Transition(ctx context.Context, actor *model.User, id, action string, req *dto.TravelOrderActionRequest) (*model.TravelOrder, error) {
	t, ok := transitions[action]
	if !ok {
		return nil, ErrTransitionNotAllowed
	}
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	order, err := s.repo.TravelOrder.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTravelOrderNotFound
		}
		s.logger.Error("get travel order failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !canView(actor, order) {
		return nil, ErrTravelOrderNotFound
	}

	from := order.Status
	if _, defined := t.from[from]; !defined {
		if !s.couldEverFire(actor, order, t) {
			return nil, ErrActionNotPermitted
		}
		return nil, &TransitionError{Action: t.logAction}
	}
	if !t.permits(actor, order, from) {
		return nil, ErrActionNotPermitted
	}

	order.Status = t.to
	actorID := actor.ID
	switch t.to {
	case model.TravelOrderRecommended:
		order.RecommendedBy = &actorID
	case model.TravelOrderApproved:
		order.ApprovedBy = &actorID
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.TravelOrder.UpdateWorkflow(ctx, order, from); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Warn("travel order changed concurrently",
				zap.String("id", id), zap.String("action", action))
			return nil, err
		}
		s.logger.Error("update travel order status failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if err := txRepo.TravelOrder.CreateLog(ctx, &model.TravelOrderLog{
		TravelOrderID: order.ID,
		ActionType:    t.logAction,
		PerformedBy:   &actorID,
		Notes:         req.Notes,
	}); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("write travel order log failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit travel order transition failed", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("travel order transitioned",
		zap.String("id", order.ID),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
		zap.String("by", actorID),
	)
	return order, nil
}

// couldEverFire whether actor holds a role that fires t from some status
func (s *travelOrderService) couldEverFire(actor *model.User, order *model.TravelOrder, t transition) bool {
	for status := range t.from {
		if t.permits(actor, order, status) {
			return true
		}
	}
	return false
}

func (s *travelOrderService) AvailableActions(actor *model.User, order *model.TravelOrder) []string {
	var actions []string
	for _, name := range transitionOrder {
		if transitions[name].permits(actor, order, order.Status) {
			actions = append(actions, name)
		}
	}
	return actions
}

// ── status presentation ──

// DisplayStatusCompleted label of the derived Completed state
const DisplayStatusCompleted = "Completed"

// StatusDisplayFor presentation of order's status, Completed derived at now
func StatusDisplayFor(order *model.TravelOrder, now time.Time) dto.StatusDisplay {
	if order.IsCompleted(now) {
		return statusDisplays[DisplayStatusCompleted]
	}
	if d, ok := statusDisplays[string(order.Status)]; ok {
		return d
	}
	return dto.StatusDisplay{Label: string(order.Status), Class: "secondary", Icon: "fa-question-circle", Text: string(order.Status)}
}

var statusDisplays = map[string]dto.StatusDisplay{
	string(model.TravelOrderPending): {
		Label: "Pending", Class: "warning", Icon: "fa-clock", Text: "Pending",
		Message: "Waiting for recommendation",
	},
	string(model.TravelOrderRecommended): {
		Label: "Recommended", Class: "info", Icon: "fa-thumbs-up", Text: "Recommended",
		Message: "Recommended, waiting for approval",
	},
	string(model.TravelOrderApproved): {
		Label: "Approved", Class: "success", Icon: "fa-check-circle", Text: "Approved",
		Message: "Approved for travel",
	},
	string(model.TravelOrderRejected): {
		Label: "Disapproved", Class: "danger", Icon: "fa-times-circle", Text: "Disapproved",
		Message: "Request was disapproved",
	},
	string(model.TravelOrderCancelled): {
		Label: "Cancelled", Class: "secondary", Icon: "fa-ban", Text: "Cancelled",
		Message: "Request was cancelled",
	},
	DisplayStatusCompleted: {
		Label: "Completed", Class: "primary", Icon: "fa-flag-checkered", Text: "Completed",
		Message: "Travel completed",
	},
}
