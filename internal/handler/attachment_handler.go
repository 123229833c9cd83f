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

// AttachmentHandler handles attachment reference requests
type AttachmentHandler struct {
	service service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(service service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// Register handles POST /api/v1/attachments
// @Summary Register an uploaded file reference
// @Tags attachments
// @Accept json
// @Produce json
// @Param request body domain.RegisterAttachmentRequest true "attachment"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /attachments [post]
func (h *AttachmentHandler) Register(c *gin.Context) {
	var req domain.RegisterAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	att, err := h.service.Register(middleware.GetUserID(c), &req)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, att, nil)
}

// Get handles GET /api/v1/attachments/:id
// @Summary Fetch an attachment reference the caller uploaded
// @Tags attachments
// @Produce json
// @Param id path int true "attachment id"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /attachments/{id} [get]
func (h *AttachmentHandler) Get(c *gin.Context) {
	attachmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid attachment id", err)
		return
	}

	att, err := h.service.Get(middleware.GetUserID(c), attachmentID)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, att, nil)
}
