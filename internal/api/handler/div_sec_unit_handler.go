package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/internal/web"
)

const divSecUnitsPath = "/divsecunits"

// DivSecUnitHandler divisions, sections and units
type DivSecUnitHandler struct {
	unitSvc service.DivSecUnitService
}

// NewDivSecUnitHandler creates a DivSecUnitHandler
func NewDivSecUnitHandler(unitSvc service.DivSecUnitService) *DivSecUnitHandler {
	return &DivSecUnitHandler{unitSvc: unitSvc}
}

func divSecUnitFields(u *model.DivSecUnit) []web.FormField {
	fields := []web.FormField{
		{Name: "name", Label: "Name", Type: "text", Required: true},
		{Name: "description", Label: "Description", Type: "textarea"},
	}
	if u != nil {
		fields[0].Value, fields[1].Value = u.Name, u.Description
	}
	return fields
}

// ListDivSecUnits list with the create form
// GET /divsecunits
func (h *DivSecUnitHandler) ListDivSecUnits(c *gin.Context) {
	var req dto.PaginationRequest
	bindPage(c, &req)

	units, total, err := h.unitSvc.List(c.Request.Context(), &req)
	if err != nil {
		errorPage(c, err)
		return
	}

	rows := make([]web.CatalogRow, 0, len(units))
	for _, u := range units {
		rows = append(rows, web.CatalogRow{ID: u.ID, Cells: []string{u.Name, u.Description}})
	}
	renderCatalog(c, web.CatalogPage{
		Title:    "Divisions / Sections / Units",
		Singular: "division/section/unit",
		BasePath: divSecUnitsPath,
		Columns:  []string{"Name", "Description"},
		Rows:     rows,
		Fields:   divSecUnitFields(nil),
		Pager:    web.NewPager(divSecUnitsPath, c.Request.URL.Query(), total, req.GetPage()),
	})
}

// ShowDivSecUnit edit form
// GET /divsecunits/:id
func (h *DivSecUnitHandler) ShowDivSecUnit(c *gin.Context) {
	unit, err := h.unitSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleDivSecUnitError(c, err, divSecUnitsPath)
		return
	}
	renderCatalogEdit(c, web.CatalogEdit{
		Title:    "Edit " + unit.Name,
		BasePath: divSecUnitsPath,
		ID:       unit.ID,
		Fields:   divSecUnitFields(unit),
	})
}

// CreateDivSecUnit
// POST /divsecunits
func (h *DivSecUnitHandler) CreateDivSecUnit(c *gin.Context) {
	var req dto.DivSecUnitRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, divSecUnitsPath)
		return
	}
	if _, err := h.unitSvc.Create(c.Request.Context(), &req); err != nil {
		h.handleDivSecUnitError(c, err, divSecUnitsPath)
		return
	}
	redirectSuccess(c, divSecUnitsPath, "Division/Section/Unit created successfully")
}

// UpdateDivSecUnit
// PUT /divsecunits/:id
func (h *DivSecUnitHandler) UpdateDivSecUnit(c *gin.Context) {
	id := c.Param("id")
	back := divSecUnitsPath + "/" + id

	var req dto.DivSecUnitRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, back)
		return
	}
	if _, err := h.unitSvc.Update(c.Request.Context(), id, &req); err != nil {
		h.handleDivSecUnitError(c, err, back)
		return
	}
	redirectSuccess(c, divSecUnitsPath, "Division/Section/Unit updated successfully")
}

// DeleteDivSecUnit refused while positions or employees reference it
// DELETE /divsecunits/:id
func (h *DivSecUnitHandler) DeleteDivSecUnit(c *gin.Context) {
	if err := h.unitSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleDivSecUnitError(c, err, divSecUnitsPath)
		return
	}
	redirectSuccess(c, divSecUnitsPath, "Division/Section/Unit deleted successfully")
}

func (h *DivSecUnitHandler) handleDivSecUnitError(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrDivSecUnitNotFound):
		notFoundPage(c, err.Error())
	case errors.Is(err, service.ErrDivSecUnitHasPositions),
		errors.Is(err, service.ErrDivSecUnitHasEmployees):
		redirectError(c, back, err.Error())
	default:
		failForm(c, err, back)
	}
}
