package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tempus/internal/calendar"
)

var directionNames = []any{"", "notset", "in", "out", "NotSet", "In", "Out", "0", "1", "2"}

// CheckingRequest is the body for adding or updating a checking. Time is a
// clock time ("09:30", "09:30:15") on the path date or an RFC 3339 timestamp.
type CheckingRequest struct {
	Time      string `json:"time"`
	Direction string `json:"direction"`
}

// Validate validates the request.
func (r CheckingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Time, validation.Required),
		validation.Field(&r.Direction, validation.In(directionNames...)),
	)
}

// PunchRequest is the body of POST /punch. An empty direction toggles.
type PunchRequest struct {
	Direction string `json:"direction"`
}

// Validate validates the request.
func (r PunchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Direction, validation.In(directionNames...)),
	)
}

// DayInfoRequest is the body of PUT /days/{date}/info.
type DayInfoRequest struct {
	Absence string `json:"absence"`
	Tag     string `json:"tag"`
}

// Validate validates the request.
func (r DayInfoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Absence, validation.Length(0, 200)),
		validation.Field(&r.Tag, validation.Length(0, 200)),
	)
}

func (r DayInfoRequest) info() *calendar.DayInfo {
	return &calendar.DayInfo{Absence: r.Absence, Tag: r.Tag}
}

// SettingsRequest is the body of PUT /settings.
type SettingsRequest struct {
	FirstDayOfWeek *int `json:"firstDayOfWeek"`
}

// Validate validates the request.
func (r SettingsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstDayOfWeek, validation.NotNil, validation.Min(0), validation.Max(6)),
	)
}

// SelectionRequest is the body of PUT /selection.
type SelectionRequest struct {
	Date string `json:"date"`
	Unit string `json:"unit"`
}

// Validate validates the request.
func (r SelectionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.Unit, validation.In("", "day", "week", "month", "year")),
	)
}

// StepRequest is the body of POST /selection/step.
type StepRequest struct {
	Delta int `json:"delta"`
}

// Validate validates the request.
func (r StepRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Delta, validation.Required, validation.Min(-1000), validation.Max(1000)),
	)
}
