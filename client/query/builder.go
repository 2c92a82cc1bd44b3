package query

import (
	"net/url"
	"strconv"
)

// UsersPath is the listing endpoint the built parameters apply to.
const UsersPath = "/api/users"

// Tristate is a filter with three logical values: unset, true and false.
// Distinct from a boolean so "not filtering" never collides with "false".
type Tristate int

const (
	StatusAny Tristate = iota
	StatusActive
	StatusInactive
)

// value returns the literal query value, or "" when unset.
func (t Tristate) value() string {
	switch t {
	case StatusActive:
		return "true"
	case StatusInactive:
		return "false"
	default:
		return ""
	}
}

// FilterState holds the active list filters. Zero values mean the filter is
// off; all active filters are ANDed by the server.
type FilterState struct {
	Name        string
	Phone       string
	Email       string
	Role        string
	Department  string
	Status      Tristate
	JoiningDate string
}

// Params describes one listing request: the pagination window plus the
// filter snapshot it was built from.
type Params struct {
	Page    int
	Limit   int
	Filters FilterState
}

// Values renders the request's query parameters. Page and limit are always
// present; a filter parameter appears only when its source value is set.
func (p Params) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.Page))
	values.Set("limit", strconv.Itoa(p.Limit))

	setIfPresent(values, "name", p.Filters.Name)
	setIfPresent(values, "phone", p.Filters.Phone)
	setIfPresent(values, "email", p.Filters.Email)
	setIfPresent(values, "role", p.Filters.Role)
	setIfPresent(values, "department", p.Filters.Department)
	setIfPresent(values, "status", p.Filters.Status.value())
	setIfPresent(values, "joiningDate", p.Filters.JoiningDate)

	return values
}

// Encode renders the query string. url.Values sorts keys, so the parameter
// order is stable.
func (p Params) Encode() string {
	return p.Values().Encode()
}

func setIfPresent(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
