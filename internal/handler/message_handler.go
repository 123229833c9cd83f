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

// MessageHandler handles message dispatch requests
type MessageHandler struct {
	dispatch  service.DispatchService
	reactions service.ReactionService
	reads     service.ReadService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(dispatch service.DispatchService, reactions service.ReactionService, reads service.ReadService) *MessageHandler {
	return &MessageHandler{dispatch: dispatch, reactions: reactions, reads: reads}
}

// Send handles POST /api/v1/messages
// @Summary Send a message to a private peer, group or channel
// @Tags messages
// @Accept json
// @Produce json
// @Param request body domain.SendMessageRequest true "message"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	senderID := middleware.GetUserID(c)
	msg, recipients, err := h.dispatch.SendMessage(senderID, &req)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{
		"message":    msg,
		"recipients": recipients,
	}, nil)
}

// Edit handles PATCH /api/v1/messages/:id
// @Summary Edit an own message within the edit window
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "message id"
// @Param request body domain.EditMessageRequest true "new content"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /messages/{id} [patch]
func (h *MessageHandler) Edit(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid message id", err)
		return
	}

	var req domain.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	msg, err := h.dispatch.EditMessage(middleware.GetUserID(c), messageID, &req)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, msg, nil)
}

// Delete handles DELETE /api/v1/messages/:id
// @Summary Tombstone a message
// @Tags messages
// @Produce json
// @Param id path int true "message id"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid message id", err)
		return
	}

	if err := h.dispatch.DeleteMessage(middleware.GetUserID(c), messageID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// AddReaction handles POST /api/v1/messages/:id/reactions
// @Summary Attach an emoji reaction
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "message id"
// @Param request body domain.ReactionRequest true "emoji"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /messages/{id}/reactions [post]
func (h *MessageHandler) AddReaction(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid message id", err)
		return
	}

	var req domain.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	delta, err := h.reactions.AddReaction(middleware.GetUserID(c), messageID, req.Emoji)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, delta, nil)
}

// RemoveReaction handles DELETE /api/v1/messages/:id/reactions
// @Summary Remove an emoji reaction
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "message id"
// @Param request body domain.ReactionRequest true "emoji"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /messages/{id}/reactions [delete]
func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid message id", err)
		return
	}

	var req domain.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	delta, err := h.reactions.RemoveReaction(middleware.GetUserID(c), messageID, req.Emoji)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, delta, nil)
}

// MarkRead handles POST /api/v1/conversations/read
// @Summary Advance the read watermark in a conversation
// @Tags conversations
// @Accept json
// @Produce json
// @Param request body domain.MarkReadRequest true "watermark"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /conversations/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	var req domain.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.reads.MarkRead(middleware.GetUserID(c), &req); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"read": true}, nil)
}
