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

// ChannelHandler handles channel management requests
type ChannelHandler struct {
	service service.ChannelService
}

// NewChannelHandler creates a new ChannelHandler
func NewChannelHandler(service service.ChannelService) *ChannelHandler {
	return &ChannelHandler{service: service}
}

// Create handles POST /api/v1/channels
// @Summary Create a channel
// @Tags channels
// @Accept json
// @Produce json
// @Param request body domain.CreateChannelRequest true "channel"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels [post]
func (h *ChannelHandler) Create(c *gin.Context) {
	var req domain.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	channel, err := h.service.CreateChannel(middleware.GetUserID(c), &req)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, channel, nil)
}

// Subscribe handles POST /api/v1/channels/:id/subscribers
// @Summary Subscribe to a channel
// @Tags channels
// @Produce json
// @Param id path int true "channel id"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id}/subscribers [post]
func (h *ChannelHandler) Subscribe(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid channel id", err)
		return
	}

	if err := h.service.Subscribe(middleware.GetUserID(c), channelID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"subscribed": true}, nil)
}

// Unsubscribe handles DELETE /api/v1/channels/:id/subscribers
// @Summary Unsubscribe from a channel
// @Tags channels
// @Produce json
// @Param id path int true "channel id"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id}/subscribers [delete]
func (h *ChannelHandler) Unsubscribe(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid channel id", err)
		return
	}

	if err := h.service.Unsubscribe(middleware.GetUserID(c), channelID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"unsubscribed": true}, nil)
}

// GrantRole handles PUT /api/v1/channels/:id/roles
// @Summary Set a subscriber's channel role (admin only)
// @Tags channels
// @Accept json
// @Produce json
// @Param id path int true "channel id"
// @Param request body domain.GrantChannelRoleRequest true "role grant"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id}/roles [put]
func (h *ChannelHandler) GrantRole(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid channel id", err)
		return
	}

	var req domain.GrantChannelRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.service.GrantRole(middleware.GetUserID(c), channelID, req.UserID, req.Role); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"granted": true}, nil)
}

// SetPosting handles PUT /api/v1/channels/:id/posting
// @Summary Toggle the admins-only posting restriction (admin only)
// @Tags channels
// @Accept json
// @Produce json
// @Param id path int true "channel id"
// @Param request body domain.SetChannelPostingRequest true "restriction"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id}/posting [put]
func (h *ChannelHandler) SetPosting(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid channel id", err)
		return
	}

	var req domain.SetChannelPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.service.SetOnlyAdminsCanPost(middleware.GetUserID(c), channelID, req.OnlyAdminsCanPost); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"only_admins_can_post": req.OnlyAdminsCanPost}, nil)
}

// Delete handles DELETE /api/v1/channels/:id
// @Summary Soft-delete a channel (admin only)
// @Tags channels
// @Produce json
// @Param id path int true "channel id"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id} [delete]
func (h *ChannelHandler) Delete(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid channel id", err)
		return
	}

	if err := h.service.DeleteChannel(middleware.GetUserID(c), channelID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
