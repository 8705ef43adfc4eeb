package session

import (
	"sync"
	"time"

	"github.com/mitkov/calbot/internal/calendar"
	"github.com/mitkov/calbot/internal/interval"
)

// Session is the live, exclusively-owned state of one in-progress
// workflow for one conversation. The data accumulator of one workflow
// is never read by another: each workflow uses its own payload field,
// set when the workflow starts and discarded with the session.
type Session struct {
	ID       string
	Workflow Workflow
	State    State

	// mu serializes input processing for this session.
	mu sync.Mutex

	draft  *EventDraft
	find   *FindTimeQuery
	modify *ModifyContext
}

// EventDraft accumulates the fields of the create workflow. Date and
// time components stay raw strings until Resolve, mirroring the fact
// that validation happens only when the candidate interval is built.
type EventDraft struct {
	Title       string
	Date        string
	StartTime   string
	EndTime     string
	Attendees   []string
	Description string

	// Pending holds the fully-resolved candidate while awaiting the
	// user's overlap confirmation.
	Pending *PendingEvent
}

// PendingEvent is a fully-resolved candidate event held only while
// awaiting confirmation of a detected conflict.
type PendingEvent struct {
	Summary     string
	Description string
	Span        interval.Interval
	Attendees   []string
}

// timeOfDay is a wall-clock position inside a day.
type timeOfDay struct {
	Hour   int
	Minute int
}

// at anchors the time of day on the given date in loc.
func (t timeOfDay) at(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, loc)
}

// FindTimeQuery accumulates the fields of the find-time workflow.
type FindTimeQuery struct {
	Date        string
	Duration    time.Duration
	Attendees   []string
	WindowStart timeOfDay
	WindowEnd   timeOfDay

	// Slots holds the enumerated free slots while awaiting selection.
	Slots []interval.Interval

	// Pending holds the chosen slot while awaiting the user's overlap
	// confirmation after the pre-booking re-check.
	Pending *PendingEvent
}

// ModifyContext accumulates the fields of the modify workflow.
type ModifyContext struct {
	// Events indexes the listed events by their calendar identifier
	// so the selection button value can be resolved back.
	Events map[string]calendar.Event

	SelectedID string
	Field      string
}

// pending returns the pending event of whichever workflow stored one.
func (s *Session) pending() *PendingEvent {
	if s.draft != nil && s.draft.Pending != nil {
		return s.draft.Pending
	}
	if s.find != nil && s.find.Pending != nil {
		return s.find.Pending
	}
	return nil
}
