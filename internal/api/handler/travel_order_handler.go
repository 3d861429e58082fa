package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
	apperrors "github.com/brandon3sican/to-system/pkg/errors"
)

const travelOrdersPath = "/travel-orders"

// transitionMessages success flash per workflow action
var transitionMessages = map[string]string{
	service.TransitionRecommend: "Travel order recommended.",
	service.TransitionApprove:   "Travel order approved.",
	service.TransitionReject:    "Travel order disapproved.",
	service.TransitionCancel:    "Travel order cancelled.",
}

// TravelOrderHandler travel order filing, workflow and printouts
type TravelOrderHandler struct {
	orderSvc service.TravelOrderService
}

// NewTravelOrderHandler creates a TravelOrderHandler
func NewTravelOrderHandler(orderSvc service.TravelOrderService) *TravelOrderHandler {
	return &TravelOrderHandler{orderSvc: orderSvc}
}

// ListTravelOrders orders visible to the signed-in user
// GET /travel-orders
func (h *TravelOrderHandler) ListTravelOrders(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req dto.TravelOrderListRequest
	bindPage(c, &req)

	orders, total, err := h.orderSvc.List(ctx, user, &req)
	if err != nil {
		errorPage(c, err)
		return
	}
	form, err := h.orderSvc.FormData(ctx, user)
	if err != nil {
		errorPage(c, err)
		return
	}
	if !user.HasRole(model.RoleAdministrator, model.RoleRecommender, model.RoleApprover) {
		// the division filter only narrows lists spanning several employees
		form.DivSecUnits = nil
	}

	renderPage(c, http.StatusOK, "travel_orders_index.html", gin.H{
		"Title":    "Travel Orders",
		"Orders":   orders,
		"Query":    req,
		"Form":     form,
		"Statuses": model.TravelOrderStatuses,
		"Pager":    newPager(c, travelOrdersPath, total, req.GetPage()),
	})
}

// CreateForm
// GET /travel-orders/create
func (h *TravelOrderHandler) CreateForm(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	form, err := h.orderSvc.FormData(c.Request.Context(), user)
	if err != nil {
		errorPage(c, err)
		return
	}
	renderPage(c, http.StatusOK, "travel_order_create.html", gin.H{"Title": "New travel order", "Form": form})
}

// CreateTravelOrder files a Pending order with the next TO number
// POST /travel-orders
func (h *TravelOrderHandler) CreateTravelOrder(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	back := travelOrdersPath + "/create"

	var req dto.CreateTravelOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, back)
		return
	}
	order, err := h.orderSvc.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleTravelOrderError(c, err, back)
		return
	}
	redirectSuccess(c, travelOrdersPath+"/"+order.ID, "Travel order "+order.TONumber+" submitted.")
}

// ShowTravelOrder detail, history and the actions the user may take
// GET /travel-orders/:id
func (h *TravelOrderHandler) ShowTravelOrder(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	order, err := h.orderSvc.GetDetail(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.handleTravelOrderError(c, err, travelOrdersPath)
		return
	}
	renderPage(c, http.StatusOK, "travel_order_show.html", gin.H{
		"Title":   "Travel Order " + order.TONumber,
		"Order":   order,
		"Actions": h.orderSvc.AvailableActions(user, order),
	})
}

// PrintTravelOrder printable form
// GET /travel-orders/:id/print
func (h *TravelOrderHandler) PrintTravelOrder(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	order, err := h.orderSvc.GetDetail(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.handleTravelOrderError(c, err, travelOrdersPath)
		return
	}
	renderPage(c, http.StatusOK, "travel_order_print.html", gin.H{"Order": order})
}

// ExportICS calendar event for the trip
// GET /travel-orders/:id/ics
func (h *TravelOrderHandler) ExportICS(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	body, filename, err := h.orderSvc.ExportICS(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.handleTravelOrderError(c, err, travelOrdersPath)
		return
	}
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}

// Recommend
// POST /travel-orders/:id/recommend
func (h *TravelOrderHandler) Recommend(c *gin.Context) { h.transition(c, service.TransitionRecommend) }

// Approve
// POST /travel-orders/:id/approve
func (h *TravelOrderHandler) Approve(c *gin.Context) { h.transition(c, service.TransitionApprove) }

// Reject
// POST /travel-orders/:id/reject
func (h *TravelOrderHandler) Reject(c *gin.Context) { h.transition(c, service.TransitionReject) }

// Cancel
// POST /travel-orders/:id/cancel
func (h *TravelOrderHandler) Cancel(c *gin.Context) { h.transition(c, service.TransitionCancel) }

func (h *TravelOrderHandler) transition(c *gin.Context, action string) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	id := c.Param("id")
	back := travelOrdersPath + "/" + id

	var req dto.TravelOrderActionRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, back)
		return
	}
	if _, err := h.orderSvc.Transition(c.Request.Context(), user, id, action, &req); err != nil {
		h.handleTravelOrderError(c, err, back)
		return
	}
	redirectSuccess(c, back, transitionMessages[action])
}

func (h *TravelOrderHandler) handleTravelOrderError(c *gin.Context, err error, back string) {
	var terr *service.TransitionError
	switch {
	case errors.Is(err, service.ErrTravelOrderNotFound):
		notFoundPage(c, err.Error())
	case errors.As(err, &terr):
		redirectError(c, back, terr.Error())
	case errors.Is(err, apperrors.ErrOptimisticLock):
		redirectError(c, back, "This travel order was changed by someone else. Please review it and try again.")
	case errors.Is(err, service.ErrTransitionNotAllowed),
		errors.Is(err, service.ErrActionNotPermitted),
		errors.Is(err, service.ErrNoEmployeeProfile),
		errors.Is(err, service.ErrTONumberExhausted):
		redirectError(c, back, err.Error())
	default:
		failForm(c, err, back)
	}
}
