package repository

import (
	"context"
	"fmt"

	"github.com/campuspulse/campus-events-api/internal/domain"
	"github.com/campuspulse/campus-events-api/internal/pkg/checkincode"
	"github.com/campuspulse/campus-events-api/internal/repository/dao"
)

var (
	ErrEventNotFound     = dao.ErrEventNotFound
	ErrAlreadyRSVPed     = dao.ErrAlreadyRSVPed
	ErrAlreadyWaitlisted = dao.ErrAlreadyWaitlisted
	ErrAlreadyCheckedIn  = dao.ErrAlreadyCheckedIn
	ErrFeedbackExists    = dao.ErrFeedbackExists
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	ListWithStats(ctx context.Context) ([]dao.EventWithStats, error)
	FindByIDWithStats(ctx context.Context, id uint) (dao.EventWithStats, error)
	AdmitRSVP(ctx context.Context, eventID, userID uint) (dao.AdmissionOutcome, error)
	HasRSVP(ctx context.Context, eventID, userID uint) (bool, error)
	InsertAttendance(ctx context.Context, eventID, userID uint) error
	HasAttendance(ctx context.Context, eventID, userID uint) (bool, error)
	InsertFeedback(ctx context.Context, feedback dao.Feedback) (dao.Feedback, error)
	CountAttendance(ctx context.Context, organizerID *uint) ([]dao.AttendanceCount, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		Title:       event.Title,
		Description: event.Description,
		StartTime:   event.StartTime,
		Location:    event.Location,
		Category:    event.Category,
		MaxCapacity: event.MaxCapacity,
		OrganizerID: event.OrganizerID,
		Recurrence:  event.Recurrence,
		CheckInCode: event.CheckInCode.Secret(),
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) ListWithStats(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.dao.ListWithStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListWithStats -> %w", err)
	}

	events := make([]domain.Event, len(rows))
	for i, row := range rows {
		events[i] = r.statsToDomain(row)
	}

	return events, nil
}

func (r *EventRepository) FindByIDWithStats(ctx context.Context, id uint) (domain.Event, error) {
	row, err := r.dao.FindByIDWithStats(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByIDWithStats -> %w", err)
	}

	return r.statsToDomain(row), nil
}

func (r *EventRepository) AdmitRSVP(ctx context.Context, eventID, userID uint) (domain.RSVPOutcome, error) {
	outcome, err := r.dao.AdmitRSVP(ctx, eventID, userID)
	if err != nil {
		return domain.RSVPOutcome{}, fmt.Errorf("r.dao.AdmitRSVP -> %w", err)
	}

	if outcome.Confirmed {
		return domain.RSVPOutcome{Status: domain.AdmissionConfirmed}, nil
	}

	return domain.RSVPOutcome{
		Status:   domain.AdmissionWaitlisted,
		Position: outcome.Position,
	}, nil
}

func (r *EventRepository) HasRSVP(ctx context.Context, eventID, userID uint) (bool, error) {
	has, err := r.dao.HasRSVP(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasRSVP -> %w", err)
	}

	return has, nil
}

func (r *EventRepository) CreateAttendance(ctx context.Context, eventID, userID uint) error {
	if err := r.dao.InsertAttendance(ctx, eventID, userID); err != nil {
		return fmt.Errorf("r.dao.InsertAttendance -> %w", err)
	}

	return nil
}

func (r *EventRepository) HasAttendance(ctx context.Context, eventID, userID uint) (bool, error) {
	has, err := r.dao.HasAttendance(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasAttendance -> %w", err)
	}

	return has, nil
}

func (r *EventRepository) CreateFeedback(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	created, err := r.dao.InsertFeedback(ctx, dao.Feedback{
		EventID:  feedback.EventID,
		UserID:   feedback.UserID,
		Rating:   feedback.Rating,
		Comments: feedback.Comments,
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.InsertFeedback -> %w", err)
	}

	return domain.Feedback{
		EventID:   created.EventID,
		UserID:    created.UserID,
		Rating:    created.Rating,
		Comments:  created.Comments,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (r *EventRepository) CountAttendance(ctx context.Context, organizerID *uint) ([]domain.EventAttendance, error) {
	rows, err := r.dao.CountAttendance(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountAttendance -> %w", err)
	}

	counts := make([]domain.EventAttendance, len(rows))
	for i, row := range rows {
		counts[i] = domain.EventAttendance{
			EventID:         row.EventID,
			EventTitle:      row.EventTitle,
			AttendanceCount: row.AttendanceCount,
		}
	}

	return counts, nil
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		Location:    e.Location,
		Category:    e.Category,
		MaxCapacity: e.MaxCapacity,
		OrganizerID: e.OrganizerID,
		Recurrence:  e.Recurrence,
		CheckInCode: checkincode.Code(e.CheckInCode),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *EventRepository) statsToDomain(row dao.EventWithStats) domain.Event {
	return domain.Event{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		StartTime:     row.StartTime,
		Location:      row.Location,
		Category:      row.Category,
		MaxCapacity:   row.MaxCapacity,
		OrganizerID:   row.OrganizerID,
		Recurrence:    row.Recurrence,
		CheckInCode:   checkincode.Code(row.CheckInCode),
		RSVPCount:     row.RSVPCount,
		OrganizerName: row.OrganizerName,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
