package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/internal/web"
)

const employmentStatusesPath = "/employment-statuses"

// EmploymentStatusHandler employment statuses
type EmploymentStatusHandler struct {
	statusSvc service.EmploymentStatusService
}

// NewEmploymentStatusHandler creates an EmploymentStatusHandler
func NewEmploymentStatusHandler(statusSvc service.EmploymentStatusService) *EmploymentStatusHandler {
	return &EmploymentStatusHandler{statusSvc: statusSvc}
}

func employmentStatusFields(s *model.EmploymentStatus) []web.FormField {
	fields := []web.FormField{
		{Name: "name", Label: "Name", Type: "text", Required: true},
		{Name: "description", Label: "Description", Type: "textarea"},
	}
	if s != nil {
		fields[0].Value, fields[1].Value = s.Name, s.Description
	}
	return fields
}

// ListEmploymentStatuses
// GET /employment-statuses
func (h *EmploymentStatusHandler) ListEmploymentStatuses(c *gin.Context) {
	var req dto.PaginationRequest
	bindPage(c, &req)

	statuses, total, err := h.statusSvc.List(c.Request.Context(), &req)
	if err != nil {
		errorPage(c, err)
		return
	}
	rows := make([]web.CatalogRow, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, web.CatalogRow{ID: s.ID, Cells: []string{s.Name, s.Description}})
	}
	renderCatalog(c, web.CatalogPage{
		Title:    "Employment Statuses",
		Singular: "employment status",
		BasePath: employmentStatusesPath,
		Columns:  []string{"Name", "Description"},
		Rows:     rows,
		Fields:   employmentStatusFields(nil),
		Pager:    web.NewPager(employmentStatusesPath, c.Request.URL.Query(), total, req.GetPage()),
	})
}

// ShowEmploymentStatus
// GET /employment-statuses/:id
func (h *EmploymentStatusHandler) ShowEmploymentStatus(c *gin.Context) {
	status, err := h.statusSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEmploymentStatusError(c, err, employmentStatusesPath)
		return
	}
	renderCatalogEdit(c, web.CatalogEdit{
		Title:    "Edit " + status.Name,
		BasePath: employmentStatusesPath,
		ID:       status.ID,
		Fields:   employmentStatusFields(status),
	})
}

// CreateEmploymentStatus
// POST /employment-statuses
func (h *EmploymentStatusHandler) CreateEmploymentStatus(c *gin.Context) {
	var req dto.EmploymentStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, employmentStatusesPath)
		return
	}
	if _, err := h.statusSvc.Create(c.Request.Context(), &req); err != nil {
		h.handleEmploymentStatusError(c, err, employmentStatusesPath)
		return
	}
	redirectSuccess(c, employmentStatusesPath, "Employment status created successfully")
}

// UpdateEmploymentStatus
// PUT /employment-statuses/:id
func (h *EmploymentStatusHandler) UpdateEmploymentStatus(c *gin.Context) {
	id := c.Param("id")
	back := employmentStatusesPath + "/" + id

	var req dto.EmploymentStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, back)
		return
	}
	if _, err := h.statusSvc.Update(c.Request.Context(), id, &req); err != nil {
		h.handleEmploymentStatusError(c, err, back)
		return
	}
	redirectSuccess(c, employmentStatusesPath, "Employment status updated successfully")
}

// DeleteEmploymentStatus
// DELETE /employment-statuses/:id
func (h *EmploymentStatusHandler) DeleteEmploymentStatus(c *gin.Context) {
	if err := h.statusSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleEmploymentStatusError(c, err, employmentStatusesPath)
		return
	}
	redirectSuccess(c, employmentStatusesPath, "Employment status deleted successfully")
}

func (h *EmploymentStatusHandler) handleEmploymentStatusError(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrEmploymentStatusNotFound):
		notFoundPage(c, err.Error())
	case errors.Is(err, service.ErrEmploymentStatusHasEmployees):
		redirectError(c, back, err.Error())
	default:
		failForm(c, err, back)
	}
}
