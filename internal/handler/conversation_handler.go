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

// ConversationHandler handles the conversation read path
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// PrivateHistory handles GET /api/v1/conversations/private/:userID/messages
// @Summary Fetch a private conversation page
// @Tags conversations
// @Produce json
// @Param userID path int true "peer user id"
// @Param before query int false "fetch messages older than this id"
// @Param limit query int false "page size"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /conversations/private/{userID}/messages [get]
func (h *ConversationHandler) PrivateHistory(c *gin.Context) {
	peerID, err := strconv.ParseUint(c.Param("userID"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid user id", err)
		return
	}
	h.history(c, domain.Destination{ReceiverID: &peerID})
}

// GroupHistory handles GET /api/v1/conversations/groups/:id/messages
// @Summary Fetch a group conversation page
// @Tags conversations
// @Produce json
// @Param id path int true "group id"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /conversations/groups/{id}/messages [get]
func (h *ConversationHandler) GroupHistory(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid group id", err)
		return
	}
	h.history(c, domain.Destination{GroupID: &groupID})
}

// ChannelHistory handles GET /api/v1/conversations/channels/:id/messages
// @Summary Fetch a channel page
// @Tags conversations
// @Produce json
// @Param id path int true "channel id"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /conversations/channels/{id}/messages [get]
func (h *ConversationHandler) ChannelHistory(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid channel id", err)
		return
	}
	h.history(c, domain.Destination{ChannelID: &channelID})
}

func (h *ConversationHandler) history(c *gin.Context, dest domain.Destination) {
	beforeID, _ := strconv.ParseUint(c.DefaultQuery("before", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := h.service.History(middleware.GetUserID(c), dest, beforeID, limit)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, messages, &common.Meta{Limit: limit})
}

// Unread handles GET /api/v1/conversations/unread
// @Summary Per-conversation unread counts
// @Tags conversations
// @Produce json
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /conversations/unread [get]
func (h *ConversationHandler) Unread(c *gin.Context) {
	counts, err := h.service.UnreadCounts(middleware.GetUserID(c))
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, counts, nil)
}
