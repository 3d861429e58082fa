package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/internal/web"
)

const positionsPath = "/positions"

// PositionHandler job positions
type PositionHandler struct {
	positionSvc service.PositionService
	unitSvc     service.DivSecUnitService
}

// NewPositionHandler creates a PositionHandler
func NewPositionHandler(positionSvc service.PositionService, unitSvc service.DivSecUnitService) *PositionHandler {
	return &PositionHandler{positionSvc: positionSvc, unitSvc: unitSvc}
}

func (h *PositionHandler) fields(c *gin.Context, p *model.Position) ([]web.FormField, error) {
	units, err := h.unitSvc.ListAll(c.Request.Context())
	if err != nil {
		return nil, err
	}
	options := make([]dto.Option, 0, len(units))
	for _, u := range units {
		options = append(options, dto.Option{ID: u.ID, Label: u.Name})
	}
	fields := []web.FormField{
		{Name: "name", Label: "Name", Type: "text", Required: true},
		{Name: "div_sec_unit_id", Label: "Division/Section/Unit", Type: "select", Options: options, Required: true},
	}
	if p != nil {
		fields[0].Value, fields[1].Value = p.Name, p.DivSecUnitID
	}
	return fields, nil
}

// ListPositions list with the create form
// GET /positions
func (h *PositionHandler) ListPositions(c *gin.Context) {
	var req dto.PaginationRequest
	bindPage(c, &req)

	positions, total, err := h.positionSvc.List(c.Request.Context(), &req)
	if err != nil {
		errorPage(c, err)
		return
	}
	fields, err := h.fields(c, nil)
	if err != nil {
		errorPage(c, err)
		return
	}

	rows := make([]web.CatalogRow, 0, len(positions))
	for _, p := range positions {
		unit := ""
		if p.DivSecUnit != nil {
			unit = p.DivSecUnit.Name
		}
		rows = append(rows, web.CatalogRow{ID: p.ID, Cells: []string{p.Name, unit}})
	}
	renderCatalog(c, web.CatalogPage{
		Title:    "Positions",
		Singular: "position",
		BasePath: positionsPath,
		Columns:  []string{"Name", "Division/Section/Unit"},
		Rows:     rows,
		Fields:   fields,
		Pager:    web.NewPager(positionsPath, c.Request.URL.Query(), total, req.GetPage()),
	})
}

// ShowPosition edit form
// GET /positions/:id
func (h *PositionHandler) ShowPosition(c *gin.Context) {
	position, err := h.positionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePositionError(c, err, positionsPath)
		return
	}
	fields, err := h.fields(c, position)
	if err != nil {
		errorPage(c, err)
		return
	}
	renderCatalogEdit(c, web.CatalogEdit{
		Title:    "Edit " + position.Name,
		BasePath: positionsPath,
		ID:       position.ID,
		Fields:   fields,
	})
}

// CreatePosition
// POST /positions
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var req dto.PositionRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, positionsPath)
		return
	}
	if _, err := h.positionSvc.Create(c.Request.Context(), &req); err != nil {
		h.handlePositionError(c, err, positionsPath)
		return
	}
	redirectSuccess(c, positionsPath, "Position created successfully")
}

// UpdatePosition
// PUT /positions/:id
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	id := c.Param("id")
	back := positionsPath + "/" + id

	var req dto.PositionRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, back)
		return
	}
	if _, err := h.positionSvc.Update(c.Request.Context(), id, &req); err != nil {
		h.handlePositionError(c, err, back)
		return
	}
	redirectSuccess(c, positionsPath, "Position updated successfully")
}

// DeletePosition refused while employees hold the position
// DELETE /positions/:id
func (h *PositionHandler) DeletePosition(c *gin.Context) {
	if err := h.positionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handlePositionError(c, err, positionsPath)
		return
	}
	redirectSuccess(c, positionsPath, "Position deleted successfully")
}

func (h *PositionHandler) handlePositionError(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrPositionNotFound):
		notFoundPage(c, err.Error())
	case errors.Is(err, service.ErrPositionHasEmployees):
		redirectError(c, back, err.Error())
	default:
		failForm(c, err, back)
	}
}
