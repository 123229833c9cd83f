package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestServiceErrorResponse_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: bad destination", ErrValidation), http.StatusBadRequest},
		{"permission", fmt.Errorf("%w: not a member", ErrPermission), http.StatusForbidden},
		{"forbidden content", ErrForbiddenContent, http.StatusForbidden},
		{"edit window", ErrEditWindowExpired, http.StatusForbidden},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"not found", ErrMessageNotFound, http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: concurrent edit", ErrConflict), http.StatusConflict},
		{"group full", ErrGroupFull, http.StatusConflict},
		{"unclassified", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ServiceErrorResponse(c, tt.err)

			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestServiceErrorResponse_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ServiceErrorResponse(c, errors.New("dsn=user:password@tcp"))

	body := w.Body.String()
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(body, "password") {
		t.Errorf("internal error details leaked: %s", body)
	}
}
