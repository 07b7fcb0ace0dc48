package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk format of due dates and deadlines.
const DateLayout = "01/02/06"

// unpadded months and days are accepted on input.
var dateLayouts = []string{DateLayout, "1/2/06"}

// DueState classifies a derived due text for styling.
type DueState int

const (
	DueNone DueState = iota
	DueInvalid
	DueToday
	DueTomorrow
	DueOverdue
	DueLater
)

// DueStatus is the derived, display-ready view of a date string.
type DueStatus struct {
	Text     string
	State    DueState
	DaysLeft int
}

// Flashing reports whether the entity should alternate styles.
func (d DueStatus) Flashing() bool {
	return d.State == DueToday || d.State == DueTomorrow
}

// Overdue reports whether the fixed overdue style applies.
func (d DueStatus) Overdue() bool { return d.State == DueOverdue }

// ParseDate parses a MM/DD/YY string into a local calendar date.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", s, lastErr)
}

// DaysUntil returns whole calendar days from today to date. Time of day is ignored.
func DaysUntil(date, today time.Time) int {
	a := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Due derives the due text for date relative to today. It never fails:
// unparseable input comes back verbatim with no flashing.
func Due(date string, today time.Time) DueStatus {
	if strings.TrimSpace(date) == "" {
		return DueStatus{State: DueNone}
	}
	t, err := ParseDate(date)
	if err != nil {
		return DueStatus{Text: date, State: DueInvalid}
	}
	days := DaysUntil(t, today)
	st := DueStatus{DaysLeft: days}
	switch {
	case days == 0:
		st.State = DueToday
		st.Text = fmt.Sprintf("%s (Due today!)", date)
	case days == 1:
		st.State = DueTomorrow
		st.Text = fmt.Sprintf("%s (Due tomorrow!)", date)
	case days < 0:
		st.State = DueOverdue
		st.Text = fmt.Sprintf("%s (%d days overdue)", date, -days)
	default:
		st.State = DueLater
		st.Text = fmt.Sprintf("%s (%d days left)", date, days)
	}
	return st
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }
