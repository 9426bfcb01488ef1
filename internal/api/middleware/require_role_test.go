package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func roleRouter(allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/events",
		func(ctx *gin.Context) {
			if role := ctx.GetHeader("X-Test-Role"); role != "" {
				ctx.Set(ContextKeyUserRole, role)
			}
		},
		RequireRole(allowed...),
		func(ctx *gin.Context) {
			ctx.Status(http.StatusCreated)
		})

	return router
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"organizer allowed", "organizer", http.StatusCreated},
		{"admin allowed", "admin", http.StatusCreated},
		{"student forbidden", "student", http.StatusForbidden},
		{"missing role forbidden", "", http.StatusForbidden},
	}

	router := roleRouter("organizer", "admin")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/events", nil)
			if tt.role != "" {
				req.Header.Set("X-Test-Role", tt.role)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
