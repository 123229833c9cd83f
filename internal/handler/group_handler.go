package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/middleware"
	"github.com/worktalk/worktalk-backend/internal/service"
)

// GroupHandler handles group management requests
type GroupHandler struct {
	service service.GroupService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(service service.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// Create handles POST /api/v1/groups
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Param request body domain.CreateGroupRequest true "group"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req domain.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	group, err := h.service.CreateGroup(middleware.GetUserID(c), &req)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, group, nil)
}

// AddMember handles POST /api/v1/groups/:id/members
// @Summary Add a member to a group
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "group id"
// @Param request body domain.AddGroupMemberRequest true "member"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /groups/{id}/members [post]
func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid group id", err)
		return
	}

	var req domain.AddGroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.service.AddMember(middleware.GetUserID(c), groupID, req.UserID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"added": true}, nil)
}

// RemoveMember handles DELETE /api/v1/groups/:id/members/:userID
// @Summary Remove a member (admin) or leave (self)
// @Tags groups
// @Produce json
// @Param id path int true "group id"
// @Param userID path int true "user id"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /groups/{id}/members/{userID} [delete]
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid group id", err)
		return
	}
	userID, err := strconv.ParseUint(c.Param("userID"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	if err := h.service.RemoveMember(middleware.GetUserID(c), groupID, userID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"removed": true}, nil)
}

// Promote handles POST /api/v1/groups/:id/admins
// @Summary Grant the group admin role
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "group id"
// @Param request body domain.AddGroupMemberRequest true "member"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /groups/{id}/admins [post]
func (h *GroupHandler) Promote(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid group id", err)
		return
	}

	var req domain.AddGroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.service.PromoteToAdmin(middleware.GetUserID(c), groupID, req.UserID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"promoted": true}, nil)
}

// Delete handles DELETE /api/v1/groups/:id
// @Summary Soft-delete a group (admin only)
// @Tags groups
// @Produce json
// @Param id path int true "group id"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid group id", err)
		return
	}

	if err := h.service.DeleteGroup(middleware.GetUserID(c), groupID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
