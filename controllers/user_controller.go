package controllers

import (
	"strconv"

	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// UserController is the admin account-management surface.
type UserController struct{ Svc *services.UserService }

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Svc: svc}
}

func userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		resp.BadRequest(c, "invalid user id")
		return 0, false
	}
	return uint(id), true
}

// GET /admin/users
func (h *UserController) List(c *gin.Context) {
	users, err := h.Svc.List(currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, users)
}

// POST /admin/users
func (h *UserController) Create(c *gin.Context) {
	var in services.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := h.Svc.Create(in, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{
		"id": user.ID, "email": user.Email, "fullName": user.FullName, "role": user.Role,
	})
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// PATCH /admin/users/:id/role
func (h *UserController) SetRole(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.SetRole(id, req.Role, currentActor(c)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "role": req.Role})
}

type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// PATCH /admin/users/:id/disabled
func (h *UserController) SetDisabled(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req SetDisabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.SetDisabled(id, *req.Disabled, currentActor(c)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "disabled": *req.Disabled})
}
