package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"start_time" format:"RFC 3339"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	MaxCapacity int    `json:"max_capacity"`
	Recurrence  string `json:"recurrence,omitempty"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.StartTime, validation.Required),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Category, validation.Length(0, 50)),
		validation.Field(&req.MaxCapacity, validation.Required, validation.Min(1)),
		validation.Field(&req.Recurrence, validation.In("", "daily", "weekly", "monthly")),
	)
}

type CheckInRequest struct {
	Code string `json:"code"`
}

func (req *CheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required),
	)
}

type FeedbackRequest struct {
	Rating   int    `json:"rating"`
	Comments string `json:"comments,omitempty"`
}

func (req *FeedbackRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Comments, validation.Length(0, 2000)),
	)
}
