package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuspulse/campus-events-api/internal/api/handler/v1/request"
	"github.com/campuspulse/campus-events-api/internal/api/handler/v1/response"
	"github.com/campuspulse/campus-events-api/internal/domain"
	"github.com/campuspulse/campus-events-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	RequestRSVP(ctx context.Context, eventID, userID uint) (domain.RSVPOutcome, error)
	HasRSVPed(ctx context.Context, eventID, userID uint) (bool, error)
	CheckIn(ctx context.Context, eventID, userID uint, presentedCode string) error
	HasCheckedIn(ctx context.Context, eventID, userID uint) (bool, error)
	SubmitFeedback(ctx context.Context, eventID, userID uint, rating int, comments string) (domain.Feedback, error)
}

type EventHandler struct {
	svc  EventService
	uSvc UserService
}

func NewEventHandler(svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Description  Creates an event. Restricted to organizers and admins. A check-in code is generated server-side and never exposed through the API.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest true "event details"
// @Success      201  {object}  response.EventCreatedResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid start_time format: %v", err)))
		return
	}

	event := domain.Event{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   startTime,
		Location:    req.Location,
		Category:    req.Category,
		MaxCapacity: req.MaxCapacity,
		OrganizerID: user.ID,
		Recurrence:  req.Recurrence,
	}

	created, err := h.svc.CreateEvent(ctx.Request.Context(), event)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	// The creator gets the code here and nowhere else.
	ctx.JSON(http.StatusCreated, response.EventCreatedResponse{
		Event:       created,
		CheckInCode: created.CheckInCode.Secret(),
	})
}

// HandleListEvents godoc
// @Summary      List all events
// @Description  Public listing with the confirmed RSVP count and organizer name for each event.
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get event details
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, respErr := eventIDFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleRSVP godoc
// @Summary      RSVP to an event
// @Description  Admits the caller when a seat is free, otherwise adds them to the waitlist with a permanent position number.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      201  {object}  response.RSVPResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/rsvp [post]
// @Security     BearerAuth
func (h *EventHandler) HandleRSVP(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := eventIDFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	outcome, err := h.svc.RequestRSVP(ctx.Request.Context(), eventID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrAlreadyRSVPed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyRSVPed))
		case errors.Is(err, service.ErrAlreadyWaitlisted):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyWaitlisted))
		default:
			err = fmt.Errorf("v1.HandleRSVP -> h.svc.RequestRSVP -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	resp := response.RSVPResponse{
		Status:  outcome.Status,
		Message: "RSVP successful",
	}
	if outcome.Status == domain.AdmissionWaitlisted {
		resp.Position = outcome.Position
		resp.Message = "Added to waitlist"
	}

	ctx.JSON(http.StatusCreated, resp)
}

// HandleGetRSVPStatus godoc
// @Summary      Check whether the caller has RSVPed
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  response.RSVPStatusResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/rsvp [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetRSVPStatus(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := eventIDFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	hasRSVPd, err := h.svc.HasRSVPed(ctx.Request.Context(), eventID, user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetRSVPStatus -> h.svc.HasRSVPed -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.RSVPStatusResponse{HasRSVPd: hasRSVPd})
}

// HandleCheckIn godoc
// @Summary      Check in to an event
// @Description  Records attendance when the presented code matches the event's check-in code and the caller holds a confirmed RSVP. The code is verified before RSVP membership, so a wrong code never reveals RSVP state.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                     true  "Event ID"
// @Param        request  body      request.CheckInRequest  true  "check-in code"
// @Success      200  {object}  response.CheckInResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/check-in [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCheckIn(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := eventIDFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.CheckIn(ctx.Request.Context(), eventID, user.ID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrInvalidCheckInCode):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidCheckInCode))
		case errors.Is(err, service.ErrNotRSVPed):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotRSVPed))
		case errors.Is(err, service.ErrAlreadyCheckedIn):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyCheckedIn))
		default:
			err = fmt.Errorf("v1.HandleCheckIn -> h.svc.CheckIn -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.CheckInResponse{Message: "Checked in"})
}

// HandleGetCheckInStatus godoc
// @Summary      Check whether the caller has attended
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  response.CheckInStatusResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/check-in [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetCheckInStatus(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := eventIDFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	hasAttended, err := h.svc.HasCheckedIn(ctx.Request.Context(), eventID, user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCheckInStatus -> h.svc.HasCheckedIn -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.CheckInStatusResponse{HasAttended: hasAttended})
}

// HandleSubmitFeedback godoc
// @Summary      Submit post-event feedback
// @Description  Accepts one rating (1-5) with optional comments per attended event.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                      true  "Event ID"
// @Param        request  body      request.FeedbackRequest  true  "feedback"
// @Success      201  {object}  response.FeedbackResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/feedback [post]
// @Security     BearerAuth
func (h *EventHandler) HandleSubmitFeedback(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := eventIDFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	feedback, err := h.svc.SubmitFeedback(ctx.Request.Context(), eventID, user.ID, req.Rating, req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidRating))
		case errors.Is(err, service.ErrNotAttended):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAttended))
		case errors.Is(err, service.ErrFeedbackExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrFeedbackExists))
		default:
			err = fmt.Errorf("v1.HandleSubmitFeedback -> h.svc.SubmitFeedback -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.FeedbackResponse{
		Message:  "Feedback submitted",
		Feedback: feedback,
	})
}
