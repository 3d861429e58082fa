package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/internal/web"
)

const rolesPath = "/roles"

// RoleHandler account roles
type RoleHandler struct {
	roleSvc service.RoleService
}

// NewRoleHandler creates a RoleHandler
func NewRoleHandler(roleSvc service.RoleService) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc}
}

func roleFields(r *model.Role) []web.FormField {
	fields := []web.FormField{
		{Name: "name", Label: "Name", Type: "text", Required: true},
		{Name: "description", Label: "Description", Type: "textarea"},
	}
	if r != nil {
		fields[0].Value, fields[1].Value = r.Name, r.Description
	}
	return fields
}

// ListRoles
// GET /roles
func (h *RoleHandler) ListRoles(c *gin.Context) {
	var req dto.PaginationRequest
	bindPage(c, &req)

	roles, total, err := h.roleSvc.List(c.Request.Context(), &req)
	if err != nil {
		errorPage(c, err)
		return
	}
	rows := make([]web.CatalogRow, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, web.CatalogRow{ID: r.ID, Cells: []string{r.Name, r.Description}})
	}
	renderCatalog(c, web.CatalogPage{
		Title:    "Roles",
		Singular: "role",
		BasePath: rolesPath,
		Columns:  []string{"Name", "Description"},
		Rows:     rows,
		Fields:   roleFields(nil),
		Pager:    web.NewPager(rolesPath, c.Request.URL.Query(), total, req.GetPage()),
	})
}

// ShowRole
// GET /roles/:id
func (h *RoleHandler) ShowRole(c *gin.Context) {
	role, err := h.roleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleRoleError(c, err, rolesPath)
		return
	}
	renderCatalogEdit(c, web.CatalogEdit{Title: "Edit " + role.Name, BasePath: rolesPath, ID: role.ID, Fields: roleFields(role)})
}

// CreateRole
// POST /roles
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req dto.RoleRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, rolesPath)
		return
	}
	if _, err := h.roleSvc.Create(c.Request.Context(), &req); err != nil {
		h.handleRoleError(c, err, rolesPath)
		return
	}
	redirectSuccess(c, rolesPath, "Role created successfully")
}

// UpdateRole
// PUT /roles/:id
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id := c.Param("id")
	back := rolesPath + "/" + id

	var req dto.RoleRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, back)
		return
	}
	if _, err := h.roleSvc.Update(c.Request.Context(), id, &req); err != nil {
		h.handleRoleError(c, err, back)
		return
	}
	redirectSuccess(c, rolesPath, "Role updated successfully")
}

// DeleteRole refused while accounts hold the role
// DELETE /roles/:id
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	if err := h.roleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleRoleError(c, err, rolesPath)
		return
	}
	redirectSuccess(c, rolesPath, "Role deleted successfully")
}

func (h *RoleHandler) handleRoleError(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrRoleNotFound):
		notFoundPage(c, err.Error())
	case errors.Is(err, service.ErrRoleHasUsers):
		redirectError(c, back, err.Error())
	default:
		failForm(c, err, back)
	}
}
