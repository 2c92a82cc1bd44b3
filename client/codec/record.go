package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRecordShape is returned when the codec is handed something that
// is not a user record object.
var ErrInvalidRecordShape = errors.New("invalid record shape")

// Department represents the read-only reference data used for the
// department select options and list filters.
type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserRecord is the flat server-shaped representation of a user as it
// travels over the wire. Optional fields are empty strings when absent.
type UserRecord struct {
	ID                string      `json:"id"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	Email             string      `json:"email"`
	Gender            string      `json:"gender"`
	Phone             string      `json:"phone"`
	Age               int         `json:"age"`
	DeptID            string      `json:"dept_id"`
	Role              string      `json:"role"`
	JoiningDate       string      `json:"joining_date"`
	IsActive          bool        `json:"is_active"`
	Rating            int         `json:"rating"`
	ProfileColor      string      `json:"profile_color"`
	AvailabilityStart string      `json:"availability_start"`
	AvailabilityEnd   string      `json:"availability_end"`
	Tags              string      `json:"tags"`
	Agreement         bool        `json:"agreement"`
	Resume            string      `json:"resume"`
	ProfilePicture    string      `json:"profile_picture"`
	CreatedAt         string      `json:"created_at"`
	Department        *Department `json:"department,omitempty"`
}

// ParseRecord decodes a raw JSON body into a UserRecord. Anything that is
// not a JSON object fails with ErrInvalidRecordShape.
func ParseRecord(raw []byte) (*UserRecord, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrInvalidRecordShape
	}

	var record UserRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecordShape, err)
	}
	return &record, nil
}
