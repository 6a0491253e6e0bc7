package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/response"
)

// UserHandler manages staff accounts
type UserHandler struct {
	staffService *service.StaffService
}

// NewUserHandler creates a new user handler
func NewUserHandler(staffService *service.StaffService) *UserHandler {
	return &UserHandler{staffService: staffService}
}

// List returns every user account
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.staffService.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Users retrieved successfully", users)
}

// ListSellers returns admins and sellers, for the cashout seller picker
func (h *UserHandler) ListSellers(c *gin.Context) {
	staff, err := h.staffService.ListStaff(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sellers retrieved successfully", staff)
}

// Create adds a user account
func (h *UserHandler) Create(c *gin.Context) {
	var req request.UserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.staffService.CreateUser(c.Request.Context(), userInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "User created successfully", user)
}

// Update edits a user account
func (h *UserHandler) Update(c *gin.Context) {
	var req request.UserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.staffService.UpdateUser(c.Request.Context(), c.Param("id"), userInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User updated successfully", user)
}

// Delete removes a user account. Admins cannot delete themselves.
func (h *UserHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.staffService.DeleteUser(c.Request.Context(), p.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func userInput(req *request.UserRequest) *service.UserInput {
	return &service.UserInput{
		Name:     req.Name,
		Rut:      req.Rut,
		Role:     req.Role,
		Password: req.Password,
	}
}
