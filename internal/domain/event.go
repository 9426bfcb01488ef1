package domain

import (
	"time"

	"github.com/campuspulse/campus-events-api/internal/pkg/checkincode"
)

type Event struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	MaxCapacity int       `json:"max_capacity"`
	OrganizerID uint      `json:"organizer_id"`
	Recurrence  string    `json:"recurrence,omitempty"`

	// CheckInCode is the event's door secret. The type redacts itself in
	// JSON and logs; use Secret() only when persisting.
	CheckInCode checkincode.Code `json:"-"`

	// Derived on reads, never stored.
	RSVPCount     int64  `json:"rsvp_count"`
	OrganizerName string `json:"organizer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AdmissionStatus string

const (
	AdmissionConfirmed  AdmissionStatus = "confirmed"
	AdmissionWaitlisted AdmissionStatus = "waitlisted"
)

// RSVPOutcome is the result of an admission decision. Position is set only
// for waitlisted outcomes; it is a permanent ticket number assigned at
// insertion time, never renumbered when earlier entries leave.
type RSVPOutcome struct {
	Status   AdmissionStatus `json:"status"`
	Position int             `json:"position,omitempty"`
}

type Feedback struct {
	EventID   uint      `json:"event_id"`
	UserID    uint      `json:"user_id"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventAttendance is one row of the organizer analytics report. Events with
// zero attendance are included with a zero count.
type EventAttendance struct {
	EventID         uint   `json:"event_id"`
	EventTitle      string `json:"event_title"`
	AttendanceCount int64  `json:"attendance_count"`
}
