package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Major string `json:"major,omitempty"`
	Year  int    `json:"year,omitempty"`
}

func (req *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Year, validation.Min(0), validation.Max(8)),
	)
}
