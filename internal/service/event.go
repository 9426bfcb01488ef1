package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campuspulse/campus-events-api/internal/domain"
	"github.com/campuspulse/campus-events-api/internal/pkg/checkincode"
	"github.com/campuspulse/campus-events-api/internal/repository"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrEventNotFound     = repository.ErrEventNotFound
	ErrAlreadyRSVPed     = repository.ErrAlreadyRSVPed
	ErrAlreadyWaitlisted = repository.ErrAlreadyWaitlisted
	ErrAlreadyCheckedIn  = repository.ErrAlreadyCheckedIn
	ErrFeedbackExists    = repository.ErrFeedbackExists

	ErrInvalidCheckInCode = errors.New("invalid check-in code")
	ErrNotRSVPed          = errors.New("user must RSVP before checking in")
	ErrNotAttended        = errors.New("user must attend the event before submitting feedback")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrNotAuthorized      = errors.New("user is not allowed to view attendance analytics")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	ListWithStats(ctx context.Context) ([]domain.Event, error)
	FindByIDWithStats(ctx context.Context, id uint) (domain.Event, error)
	AdmitRSVP(ctx context.Context, eventID, userID uint) (domain.RSVPOutcome, error)
	HasRSVP(ctx context.Context, eventID, userID uint) (bool, error)
	CreateAttendance(ctx context.Context, eventID, userID uint) error
	HasAttendance(ctx context.Context, eventID, userID uint) (bool, error)
	CreateFeedback(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error)
	CountAttendance(ctx context.Context, organizerID *uint) ([]domain.EventAttendance, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

// CreateEvent stores a new event with a freshly generated check-in code.
// The code is never regenerated or exposed through list/detail reads.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.CheckInCode = checkincode.New()

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.ListWithStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListWithStats -> %w", err)
	}

	return events, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByIDWithStats(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByIDWithStats -> %w", err)
	}

	return event, nil
}

// RequestRSVP decides admission for one user on one event. The capacity
// check and the row insert happen atomically in the repository, so the
// confirmed count never exceeds max_capacity under concurrent attempts.
// A full event puts the user on the waitlist instead of rejecting outright.
func (s *EventService) RequestRSVP(ctx context.Context, eventID, userID uint) (domain.RSVPOutcome, error) {
	outcome, err := s.repo.AdmitRSVP(ctx, eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return domain.RSVPOutcome{}, ErrEventNotFound
		case errors.Is(err, repository.ErrAlreadyRSVPed):
			return domain.RSVPOutcome{}, ErrAlreadyRSVPed
		case errors.Is(err, repository.ErrAlreadyWaitlisted):
			return domain.RSVPOutcome{}, ErrAlreadyWaitlisted
		}

		return domain.RSVPOutcome{}, fmt.Errorf("s.repo.AdmitRSVP -> %w", err)
	}

	if outcome.Status == domain.AdmissionWaitlisted {
		zap.L().Info("event at capacity, user waitlisted",
			zap.Uint("event_id", eventID),
			zap.Int("position", outcome.Position))
	}

	return outcome, nil
}

func (s *EventService) HasRSVPed(ctx context.Context, eventID, userID uint) (bool, error) {
	has, err := s.repo.HasRSVP(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("s.repo.HasRSVP -> %w", err)
	}

	return has, nil
}

// CheckIn validates a presented door code and records attendance. The order
// of checks is deliberate: the code is verified before RSVP membership, so a
// wrong code never reveals whether the caller RSVPed.
func (s *EventService) CheckIn(ctx context.Context, eventID, userID uint, presentedCode string) error {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !event.CheckInCode.Matches(presentedCode) {
		return ErrInvalidCheckInCode
	}

	hasRSVP, err := s.repo.HasRSVP(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("s.repo.HasRSVP -> %w", err)
	}
	if !hasRSVP {
		return ErrNotRSVPed
	}

	if err := s.repo.CreateAttendance(ctx, eventID, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyCheckedIn) {
			return ErrAlreadyCheckedIn
		}

		return fmt.Errorf("s.repo.CreateAttendance -> %w", err)
	}

	return nil
}

func (s *EventService) HasCheckedIn(ctx context.Context, eventID, userID uint) (bool, error) {
	has, err := s.repo.HasAttendance(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("s.repo.HasAttendance -> %w", err)
	}

	return has, nil
}

// SubmitFeedback accepts one rating per attended event and user.
func (s *EventService) SubmitFeedback(ctx context.Context, eventID, userID uint, rating int, comments string) (domain.Feedback, error) {
	if rating < MinRating || rating > MaxRating {
		return domain.Feedback{}, ErrInvalidRating
	}

	attended, err := s.repo.HasAttendance(ctx, eventID, userID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.repo.HasAttendance -> %w", err)
	}
	if !attended {
		return domain.Feedback{}, ErrNotAttended
	}

	created, err := s.repo.CreateFeedback(ctx, domain.Feedback{
		EventID:  eventID,
		UserID:   userID,
		Rating:   rating,
		Comments: comments,
	})
	if err != nil {
		if errors.Is(err, repository.ErrFeedbackExists) {
			return domain.Feedback{}, ErrFeedbackExists
		}

		return domain.Feedback{}, fmt.Errorf("s.repo.CreateFeedback -> %w", err)
	}

	return created, nil
}

// AttendanceAnalytics aggregates per-event attendance for the caller.
// Organizers see only their own events; admins see every event. Events with
// zero attendance are included.
func (s *EventService) AttendanceAnalytics(ctx context.Context, user domain.User) ([]domain.EventAttendance, error) {
	var organizerID *uint

	switch user.Role {
	case domain.RoleOrganizer:
		organizerID = &user.ID
	case domain.RoleAdmin:
		// admins aggregate over all events
	default:
		return nil, ErrNotAuthorized
	}

	counts, err := s.repo.CountAttendance(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.CountAttendance -> %w", err)
	}

	return counts, nil
}
