package domain

import "strings"

// Session is the explicit editing context of one user on one store/version
// list: who is editing, which day is on screen and the rows they hold.
type Session struct {
	User       *User
	StoreKey   string
	VersionKey string

	// ViewDate is the day being viewed; empty means today.
	ViewDate string

	Items Checklist
}

func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// IsHistorical reports whether the session views a day other than today,
// in which case every mutating action is refused.
func (s Session) IsHistorical(today string) bool {
	d := strings.TrimSpace(s.ViewDate)
	return d != "" && d != today
}

// Outcome carries a refusal: a guard stopped the action before any state
// changed. A refusal is a normal result, not an error.
type Outcome struct {
	Refused bool   `json:"refused"`
	Reason  string `json:"reason,omitempty"`
}

func Refuse(reason string) Outcome {
	return Outcome{Refused: true, Reason: reason}
}

const (
	ReasonHistoricalSave  = "Viewing a past date is read-only. Return to today to save changes."
	ReasonHistoricalClear = "Viewing a past date is read-only. Return to today to clear the list."
	ReasonHistoricalEdit  = "Viewing a past date is read-only. Return to today to edit the list."
	ReasonHistoricalMove  = "Viewing a past date is read-only. Return to today to move products."
	ReasonNoSession       = "There is no active session."
)
