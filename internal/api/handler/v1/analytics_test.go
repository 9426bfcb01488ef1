package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campuspulse/campus-events-api/internal/api/middleware"
	"github.com/campuspulse/campus-events-api/internal/domain"
	"github.com/campuspulse/campus-events-api/internal/service"
)

type fakeAnalyticsService struct {
	attendanceAnalytics func(ctx context.Context, user domain.User) ([]domain.EventAttendance, error)
}

func (f *fakeAnalyticsService) AttendanceAnalytics(ctx context.Context, user domain.User) ([]domain.EventAttendance, error) {
	return f.attendanceAnalytics(ctx, user)
}

func analyticsTestRouter(svc AnalyticsService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewAnalyticsHandler(svc, fakeUserService{})

	router := gin.New()
	router.GET("/analytics/attendance",
		func(ctx *gin.Context) {
			ctx.Set(middleware.ContextKeyUserID, uint(1))
		},
		handler.HandleAttendanceAnalytics)

	return router
}

func TestHandleAttendanceAnalytics(t *testing.T) {
	svc := &fakeAnalyticsService{
		attendanceAnalytics: func(_ context.Context, _ domain.User) ([]domain.EventAttendance, error) {
			return []domain.EventAttendance{
				{EventID: 1, EventTitle: "Open Day", AttendanceCount: 12},
				{EventID: 2, EventTitle: "Hack Night", AttendanceCount: 0},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/analytics/attendance", nil)
	w := httptest.NewRecorder()
	analyticsTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"attendance_count":12`)
	assert.Contains(t, w.Body.String(), `"attendance_count":0`)
}

func TestHandleAttendanceAnalytics_Forbidden(t *testing.T) {
	svc := &fakeAnalyticsService{
		attendanceAnalytics: func(_ context.Context, _ domain.User) ([]domain.EventAttendance, error) {
			return nil, service.ErrNotAuthorized
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/analytics/attendance", nil)
	w := httptest.NewRecorder()
	analyticsTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
