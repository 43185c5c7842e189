// Package models defines the persisted representation of months.
package models

// StorableMonth is the serialized form of a month, stored under
// "{year}/{monthIndex}".
type StorableMonth struct {
	Checkings []StorableChecking `json:"checkings"`
	DayInfos  []StorableDayInfo  `json:"dayInfos"`
}

// StorableChecking is a checking as written to storage.
type StorableChecking struct {
	// Datetime is an ISO-8601 timestamp.
	Datetime string `json:"datetime"`
	// Direction is 0 (not set), 1 (in) or 2 (out).
	Direction int `json:"direction"`
}

// StorableDayInfo is the optional info of a single day.
type StorableDayInfo struct {
	Day     int    `json:"day"`
	Absence string `json:"absence"`
	Tag     string `json:"tag"`
}

// DatetimeLayout is the layout checkings are written with: UTC with
// millisecond precision.
const DatetimeLayout = "2006-01-02T15:04:05.000Z07:00"
