package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/pkg/response"
)

const usersPath = "/users"

// UserHandler account administration
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers accounts with the create form
// GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.UserListRequest
	bindPage(c, &req)

	users, total, err := h.userSvc.List(ctx, &req)
	if err != nil {
		errorPage(c, err)
		return
	}
	form, err := h.userSvc.CreateFormData(ctx)
	if err != nil {
		errorPage(c, err)
		return
	}
	renderPage(c, http.StatusOK, "users_index.html", gin.H{
		"Title": "Users",
		"Users": users,
		"Form":  form,
		"Pager": newPager(c, usersPath, total, req.GetPage()),
	})
}

// CreateFormData roles and employees without an account, as JSON
// GET /users/create
func (h *UserHandler) CreateFormData(c *gin.Context) {
	data, err := h.userSvc.CreateFormData(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.OK(c, data)
}

// EditFormData account, linked employee and roles, as JSON
// GET /users/:id/edit
func (h *UserHandler) EditFormData(c *gin.Context) {
	data, err := h.userSvc.EditFormData(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 40400, err.Error())
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.OK(c, data)
}

// ShowUser edit form
// GET /users/:id
func (h *UserHandler) ShowUser(c *gin.Context) {
	data, err := h.userSvc.EditFormData(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUserError(c, err, usersPath)
		return
	}
	renderPage(c, http.StatusOK, "user_edit.html", gin.H{"Title": "Edit " + data.User.Username, "Form": data})
}

// CreateUser
// POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, usersPath, passwordFields...)
		return
	}
	if _, err := h.userSvc.Create(c.Request.Context(), &req); err != nil {
		h.handleUserError(c, err, usersPath)
		return
	}
	redirectSuccess(c, usersPath, "User created successfully")
}

// UpdateUser also renames the linked employee
// PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	back := usersPath + "/" + id

	var req dto.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, back, passwordFields...)
		return
	}
	if _, err := h.userSvc.Update(c.Request.Context(), id, &req); err != nil {
		h.handleUserError(c, err, back)
		return
	}
	redirectSuccess(c, usersPath, "User updated successfully.")
}

// DeleteUser the linked employee record is kept
// DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleUserError(c, err, usersPath)
		return
	}
	redirectSuccess(c, usersPath, "User deleted successfully")
}

func (h *UserHandler) handleUserError(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		notFoundPage(c, err.Error())
	case errors.Is(err, service.ErrCannotDeleteSelf),
		errors.Is(err, service.ErrLastAdministrator):
		redirectError(c, back, err.Error())
	default:
		failForm(c, err, back, passwordFields...)
	}
}
