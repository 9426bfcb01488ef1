package response

import "github.com/campuspulse/campus-events-api/internal/domain"

// EventCreatedResponse is returned only to the event's creator. This is the
// single place the check-in code leaves the server; every other event
// serialization redacts it.
type EventCreatedResponse struct {
	Event       domain.Event `json:"event"`
	CheckInCode string       `json:"check_in_code"`
}

type RSVPResponse struct {
	Status   domain.AdmissionStatus `json:"status"`
	Position int                    `json:"position,omitempty"`
	Message  string                 `json:"message"`
}

type RSVPStatusResponse struct {
	HasRSVPd bool `json:"hasRSVPd"`
}

type CheckInResponse struct {
	Message string `json:"message"`
}

type CheckInStatusResponse struct {
	HasAttended bool `json:"hasAttended"`
}

type FeedbackResponse struct {
	Message  string          `json:"message"`
	Feedback domain.Feedback `json:"feedback"`
}
