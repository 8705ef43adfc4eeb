package session

import (
	"context"
	"time"

	"github.com/mitkov/calbot/internal/calendar"
	"github.com/mitkov/calbot/internal/interval"
)

// InputKind distinguishes free-form text from button presses.
type InputKind int

const (
	// InputText is a plain text reply.
	InputText InputKind = iota
	// InputButton is a button selection; the payload carries the
	// button value.
	InputButton
)

// Input is one user input event delivered by the transport.
type Input struct {
	SessionID string
	Kind      InputKind
	Payload   string
}

// Option is one selectable choice presented to the user. The transport
// decides how to render it (inline button, numbered list).
type Option struct {
	Label string
	Value string
}

// Gateway is the calendar backend the workflows read and write through.
// *calendar.Client implements it.
type Gateway interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, opts calendar.ListOptions) ([]calendar.Event, error)
	InsertEvent(ctx context.Context, calendarID string, input calendar.EventInput) (*calendar.Event, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, input calendar.EventInput) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Availability answers conflict and free-slot questions.
// *availability.Resolver implements it.
type Availability interface {
	HasConflict(ctx context.Context, candidate interval.Interval, calendarIDs []string) (bool, error)
	FindFreeSlots(ctx context.Context, window interval.Interval, duration time.Duration, calendarIDs []string, step time.Duration) ([]interval.Interval, error)
}

// Transport delivers prompts and results back to the user.
type Transport interface {
	// Send delivers a plain text message.
	Send(ctx context.Context, sessionID, text string) error

	// SendOptions delivers a prompt with selectable options.
	SendOptions(ctx context.Context, sessionID, text string, options []Option) error

	// SendMenu delivers the persistent main menu.
	SendMenu(ctx context.Context, sessionID, text string, rows [][]string) error

	// SendChart delivers a rendered PNG image.
	SendChart(ctx context.Context, sessionID string, png []byte) error
}

// Reminders schedules one-shot deferred deliveries.
// *reminder.Scheduler implements it.
type Reminders interface {
	Schedule(id string, at time.Time, deliver func())
}
