package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuspulse/campus-events-api/internal/api/handler/v1/response"
	"github.com/campuspulse/campus-events-api/internal/api/middleware"
	"github.com/campuspulse/campus-events-api/internal/domain"
)

// getUserFromContext resolves the authenticated principal stored by the JWT
// middleware into a full user record.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized(errors.New("login required"))
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("invalid principal"))
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err))
	}

	return user, nil
}

func eventIDFromPath(ctx *gin.Context) (uint, *response.Err) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err))
	}

	return uint(eventID), nil
}
