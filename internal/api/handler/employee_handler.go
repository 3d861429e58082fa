package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/internal/web"
)

const (
	employeesPath = "/employees"
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// EmployeeHandler employee directory, spreadsheet export and import
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler creates an EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// ListEmployees filtered, paged list; administrators also get the create and import forms
// GET /employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req dto.EmployeeListRequest
	bindPage(c, &req)

	employees, total, err := h.employeeSvc.List(ctx, &req)
	if err != nil {
		errorPage(c, err)
		return
	}
	form, err := h.employeeSvc.FormData(ctx)
	if err != nil {
		errorPage(c, err)
		return
	}

	query := c.Request.URL.Query()
	exportQuery := url.Values{}
	for k, v := range query {
		if k != "page" {
			exportQuery[k] = v
		}
	}

	renderPage(c, http.StatusOK, "employees_index.html", gin.H{
		"Title":     "Employees",
		"Employees": employees,
		"Query":     req,
		"Form":      form,
		"Values":    web.EmployeeValues(nil),
		"Pager":     web.NewPager(employeesPath, query, total, req.GetPage()),
		"ExportURL": employeesPath + "/export?" + exportQuery.Encode(),
		"CanManage": user.IsAdministrator(),
	})
}

// ShowEmployee edit form
// GET /employees/:id
func (h *EmployeeHandler) ShowEmployee(c *gin.Context) {
	ctx := c.Request.Context()
	employee, err := h.employeeSvc.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.handleEmployeeError(c, err, employeesPath)
		return
	}
	form, err := h.employeeSvc.FormData(ctx)
	if err != nil {
		errorPage(c, err)
		return
	}
	h.renderEdit(c, employee, form)
}

func (h *EmployeeHandler) renderEdit(c *gin.Context, employee *model.Employee, form *dto.EmployeeFormData) {
	renderPage(c, http.StatusOK, "employee_edit.html", gin.H{
		"Title":    "Edit " + employee.FullName(),
		"Employee": employee,
		"Form":     form,
		"Values":   web.EmployeeValues(employee),
	})
}

// CreateEmployee
// POST /employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req dto.EmployeeInput
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, employeesPath)
		return
	}
	if _, err := h.employeeSvc.Create(c.Request.Context(), &req); err != nil {
		h.handleEmployeeError(c, err, employeesPath)
		return
	}
	redirectSuccess(c, employeesPath, "Employee created successfully")
}

// UpdateEmployee
// PUT /employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id := c.Param("id")
	back := employeesPath + "/" + id

	var req dto.EmployeeInput
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, back)
		return
	}
	if _, err := h.employeeSvc.Update(c.Request.Context(), id, &req); err != nil {
		h.handleEmployeeError(c, err, back)
		return
	}
	redirectSuccess(c, employeesPath, "Employee updated successfully")
}

// DeleteEmployee refused while travel orders or an account reference the employee
// DELETE /employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleEmployeeError(c, err, employeesPath)
		return
	}
	redirectSuccess(c, employeesPath, "Employee deleted successfully")
}

// ExportEmployees current filters as an .xlsx download
// GET /employees/export
func (h *EmployeeHandler) ExportEmployees(c *gin.Context) {
	var req dto.EmployeeListRequest
	bindPage(c, &req)

	buf, filename, err := h.employeeSvc.Export(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err, employeesPath)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}

// ImportEmployees creates employees from an uploaded workbook.
// Rejected rows are listed back; accepted rows are kept.
// POST /employees/import
func (h *EmployeeHandler) ImportEmployees(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			redirectError(c, employeesPath, "The file is too large.")
			return
		}
		redirectError(c, employeesPath, "Choose an .xlsx file to import.")
		return
	}
	f, err := fh.Open()
	if err != nil {
		errorPage(c, err)
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	rows, err := h.employeeSvc.ParseImportFile(f)
	if err != nil {
		h.handleEmployeeError(c, err, employeesPath)
		return
	}
	result, err := h.employeeSvc.Import(ctx, rows)
	if err != nil {
		h.handleEmployeeError(c, err, employeesPath)
		return
	}

	flash := web.Flash{ImportErrors: result.Errors}
	if result.Failed > 0 {
		flash.Error = fmt.Sprintf("Imported %d of %d rows; %d rejected.", result.Success, result.Total, result.Failed)
	} else {
		flash.Success = fmt.Sprintf("Imported %d of %d rows.", result.Success, result.Total)
	}
	redirectWithFlash(c, employeesPath, flash)
}

func (h *EmployeeHandler) handleEmployeeError(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		notFoundPage(c, err.Error())
	case errors.Is(err, service.ErrEmployeeHasTravelOrders),
		errors.Is(err, service.ErrEmployeeHasAccount),
		errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportTooManyRows),
		errors.Is(err, service.ErrImportBadHeader),
		errors.Is(err, service.ErrImportUnreadable),
		errors.Is(err, service.ErrExportGenerateFail):
		redirectError(c, back, err.Error())
	default:
		failForm(c, err, back)
	}
}
