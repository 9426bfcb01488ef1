package domain

import "time"

const (
	RoleStudent   = "student"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Major     string    `json:"major,omitempty"`
	Year      int       `json:"year,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanManageEvents reports whether the user may create events and read
// attendance analytics.
func (u User) CanManageEvents() bool {
	return u.Role == RoleOrganizer || u.Role == RoleAdmin
}
