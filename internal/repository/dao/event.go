package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRSVPed     = errors.New("user already has an RSVP for this event")
	ErrAlreadyWaitlisted = errors.New("user is already on the waitlist for this event")
	ErrAlreadyCheckedIn  = errors.New("user already checked in to this event")
	ErrFeedbackExists    = errors.New("feedback already submitted for this event")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title       string    `gorm:"not null"`
	Description string
	StartTime   time.Time `gorm:"not null"`
	Location    string    `gorm:"not null"`
	Category    string
	MaxCapacity int    `gorm:"not null"`
	OrganizerID uint   `gorm:"not null;index"`
	Recurrence  string
	CheckInCode string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RSVP struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_rsvps_event_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rsvps_event_user"`
	CreatedAt time.Time `gorm:"not null"`
}

type WaitlistEntry struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_waitlist_entries_event_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_waitlist_entries_event_user"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type Attendance struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_attendances_event_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_attendances_event_user"`
	CreatedAt time.Time `gorm:"not null"`
}

type Feedback struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_feedbacks_event_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_feedbacks_event_user"`
	Rating    int       `gorm:"not null"`
	Comments  string
	CreatedAt time.Time `gorm:"not null"`
}

// EventWithStats is an Event joined with its confirmed RSVP count and the
// organizer's display name. Kept flat so gorm can scan the joined columns.
type EventWithStats struct {
	ID          uint
	Title       string
	Description string
	StartTime   time.Time
	Location    string
	Category    string
	MaxCapacity int
	OrganizerID uint
	Recurrence  string
	CheckInCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	RSVPCount     int64
	OrganizerName string
}

// AttendanceCount is one aggregation row for the analytics report.
type AttendanceCount struct {
	EventID         uint
	EventTitle      string
	AttendanceCount int64
}

// AdmissionOutcome reports how an RSVP attempt was resolved.
type AdmissionOutcome struct {
	Confirmed bool
	Position  int // waitlist ticket number, set when not confirmed
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

const eventStatsSelect = "events.*, count(rsvps.id) as rsvp_count, users.name as organizer_name"

// ListWithStats returns every event with its confirmed RSVP count and
// organizer name. Events without RSVPs appear with a zero count.
func (d *EventDAO) ListWithStats(ctx context.Context) ([]EventWithStats, error) {
	var rows []EventWithStats

	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Select(eventStatsSelect).
		Joins("LEFT JOIN rsvps ON rsvps.event_id = events.id").
		Joins("LEFT JOIN users ON users.id = events.organizer_id").
		Group("events.id, users.name").
		Order("events.start_time").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *EventDAO) FindByIDWithStats(ctx context.Context, id uint) (EventWithStats, error) {
	var row EventWithStats

	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Select(eventStatsSelect).
		Joins("LEFT JOIN rsvps ON rsvps.event_id = events.id").
		Joins("LEFT JOIN users ON users.id = events.organizer_id").
		Where("events.id = ?", id).
		Group("events.id, users.name").
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return EventWithStats{}, ErrEventNotFound
		}

		return EventWithStats{}, result.Error
	}

	return row, nil
}

// AdmitRSVP runs the whole admission decision in one transaction. The event
// row is locked with SELECT ... FOR UPDATE, so concurrent attempts on the
// same event serialize and the confirmed count can never exceed capacity.
// Exactly one row is written: an RSVP when a seat is free, otherwise a
// waitlist entry whose position is the confirmed count plus one.
func (d *EventDAO) AdmitRSVP(ctx context.Context, eventID, userID uint) (AdmissionOutcome, error) {
	var outcome AdmissionOutcome

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		var existing int64
		if err := tx.Model(&RSVP{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRSVPed
		}

		if err := tx.Model(&WaitlistEntry{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyWaitlisted
		}

		var confirmed int64
		if err := tx.Model(&RSVP{}).
			Where("event_id = ?", eventID).
			Count(&confirmed).Error; err != nil {
			return err
		}

		if confirmed < int64(event.MaxCapacity) {
			rsvp := RSVP{EventID: eventID, UserID: userID}
			if err := tx.Create(&rsvp).Error; err != nil {
				if isUniqueViolation(err, "idx_rsvps_event_user") {
					return ErrAlreadyRSVPed
				}

				return err
			}

			outcome = AdmissionOutcome{Confirmed: true}

			return nil
		}

		entry := WaitlistEntry{
			EventID:  eventID,
			UserID:   userID,
			Position: int(confirmed) + 1,
		}
		if err := tx.Create(&entry).Error; err != nil {
			if isUniqueViolation(err, "idx_waitlist_entries_event_user") {
				return ErrAlreadyWaitlisted
			}

			return err
		}

		outcome = AdmissionOutcome{Confirmed: false, Position: entry.Position}

		return nil
	})
	if err != nil {
		return AdmissionOutcome{}, err
	}

	return outcome, nil
}

func (d *EventDAO) HasRSVP(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&RSVP{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *EventDAO) InsertAttendance(ctx context.Context, eventID, userID uint) error {
	attendance := Attendance{EventID: eventID, UserID: userID}

	result := d.db.WithContext(ctx).Create(&attendance)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "idx_attendances_event_user") {
			return ErrAlreadyCheckedIn
		}

		return result.Error
	}

	return nil
}

func (d *EventDAO) HasAttendance(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *EventDAO) InsertFeedback(ctx context.Context, feedback Feedback) (Feedback, error) {
	result := d.db.WithContext(ctx).Create(&feedback)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "idx_feedbacks_event_user") {
			return Feedback{}, ErrFeedbackExists
		}

		return Feedback{}, result.Error
	}

	return feedback, nil
}

// CountAttendance aggregates attendance per event with left-join semantics:
// every event in scope appears, including those nobody attended. A nil
// organizerID widens the scope to all events.
func (d *EventDAO) CountAttendance(ctx context.Context, organizerID *uint) ([]AttendanceCount, error) {
	query := d.db.WithContext(ctx).
		Model(&Event{}).
		Select("events.id as event_id, events.title as event_title, count(attendances.id) as attendance_count").
		Joins("LEFT JOIN attendances ON attendances.event_id = events.id").
		Group("events.id, events.title").
		Order("events.id")

	if organizerID != nil {
		query = query.Where("events.organizer_id = ?", *organizerID)
	}

	var rows []AttendanceCount
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
