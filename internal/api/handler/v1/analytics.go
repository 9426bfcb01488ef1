package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuspulse/campus-events-api/internal/api/handler/v1/response"
	"github.com/campuspulse/campus-events-api/internal/domain"
	"github.com/campuspulse/campus-events-api/internal/service"
)

type AnalyticsService interface {
	AttendanceAnalytics(ctx context.Context, user domain.User) ([]domain.EventAttendance, error)
}

type AnalyticsHandler struct {
	svc  AnalyticsService
	uSvc UserService
}

func NewAnalyticsHandler(svc AnalyticsService, uSvc UserService) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleAttendanceAnalytics godoc
// @Summary      Attendance counts per event
// @Description  Organizers see counts for their own events, admins for all events. Events with zero attendance are included.
// @Tags         analytics
// @Produce      json
// @Success      200  {array}   domain.EventAttendance
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /analytics/attendance [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) HandleAttendanceAnalytics(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	counts, err := h.svc.AttendanceAnalytics(ctx.Request.Context(), user)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAuthorized))
			return
		}

		err = fmt.Errorf("v1.HandleAttendanceAnalytics -> h.svc.AttendanceAnalytics -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, counts)
}
