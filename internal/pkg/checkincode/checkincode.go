// Package checkincode generates and compares event check-in codes. The Code
// type redacts itself when printed or marshaled so the secret never leaks
// through logs or API responses.
package checkincode

import (
	"strings"

	"github.com/google/uuid"
)

const redacted = `"[REDACTED]"`

type Code string

// New returns a fresh random code, a UUID with the hyphens stripped.
func New() Code {
	return Code(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Matches reports whether the presented string equals the code exactly.
// Comparison is case sensitive.
func (c Code) Matches(presented string) bool {
	return string(c) == presented
}

// Secret returns the raw code for persistence and for handing to organizers.
func (c Code) Secret() string {
	return string(c)
}

func (c Code) String() string {
	return "[REDACTED]"
}

func (c Code) MarshalJSON() ([]byte, error) {
	return []byte(redacted), nil
}
