package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RequestCode handles POST /api/v1/auth/code
// @Summary Request an SMS one-time login code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RequestCodeRequest true "phone number"
// @Success 200 {object} common.APIResponse
// @Router /auth/code [post]
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req domain.RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.service.RequestCode(c.Request.Context(), req.Phone); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"sent": true}, nil)
}

// Login handles POST /api/v1/auth/login
// @Summary Verify a one-time code and issue tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "phone + code"
// @Success 200 {object} common.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// Refresh handles POST /api/v1/auth/refresh
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RefreshRequest true "refresh token"
// @Success 200 {object} common.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	pair, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, pair, nil)
}
