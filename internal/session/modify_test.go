package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitkov/calbot/internal/calendar"
)

func upcomingEvents() []calendar.Event {
	return []calendar.Event{
		{
			ID:      "ev-1",
			Summary: "Standup",
			Start:   time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
			End:     time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:      "ev-2",
			Summary: "Review",
			Start:   time.Date(2026, 3, 4, 16, 0, 0, 0, time.UTC),
			End:     time.Date(2026, 3, 4, 17, 0, 0, 0, time.UTC),
		},
	}
}

func TestModifyListsUpcomingEvents(t *testing.T) {
	f := newFixture(t)
	f.gateway.list = upcomingEvents()

	f.text(t, "chat1", TriggerModify)

	require.Len(t, f.gateway.listCalls, 1)
	call := f.gateway.listCalls[0]
	assert.Equal(t, testNow, call.TimeMin)
	assert.Equal(t, time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC), call.TimeMax)
	assert.Equal(t, int64(20), call.Opts.MaxResults)
	assert.False(t, call.Opts.IncludeCancelled)

	require.Len(t, f.transport.options, 1)
	opts := f.transport.options[0]
	assert.Equal(t, "Choose an event to edit:", opts.Text)
	require.Len(t, opts.Options, 2)
	assert.Equal(t, "Standup (2026-03-03 09:00)", opts.Options[0].Label)
	assert.Equal(t, "ev-1", opts.Options[0].Value)
}

func TestModifyNoUpcomingEvents(t *testing.T) {
	f := newFixture(t)

	f.text(t, "chat1", TriggerModify)

	assert.Equal(t, "No upcoming events.", f.transport.lastSent())
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestModifyTitle(t *testing.T) {
	f := newFixture(t)
	f.gateway.list = upcomingEvents()

	f.text(t, "chat1", TriggerModify)
	f.button(t, "chat1", "ev-1")
	f.button(t, "chat1", fieldTitle)
	assert.Equal(t, "Enter the new title:", f.transport.lastSent())

	f.text(t, "chat1", "Daily standup")

	require.Len(t, f.gateway.updated, 1)
	up := f.gateway.updated[0]
	assert.Equal(t, "ev-1", up.EventID)
	assert.Equal(t, "Daily standup", up.Input.Summary)
	assert.True(t, up.Input.Start.IsZero())
	assert.Equal(t, "Event updated: https://calendar.example/event/ev-1", f.transport.lastSent())
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestModifyDateTimePreservesDuration(t *testing.T) {
	f := newFixture(t)
	f.gateway.list = upcomingEvents()

	f.text(t, "chat1", TriggerModify)
	f.button(t, "chat1", "ev-2")
	f.button(t, "chat1", fieldDateTime)
	f.text(t, "chat1", "2026-03-05 10:30")

	require.Len(t, f.gateway.updated, 1)
	up := f.gateway.updated[0]
	assert.Equal(t, "ev-2", up.EventID)
	assert.Equal(t, time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC), up.Input.Start)
	assert.Equal(t, time.Date(2026, 3, 5, 11, 30, 0, 0, time.UTC), up.Input.End)
}

func TestModifyInvalidDateTimeTerminates(t *testing.T) {
	f := newFixture(t)
	f.gateway.list = upcomingEvents()

	f.text(t, "chat1", TriggerModify)
	f.button(t, "chat1", "ev-1")
	f.button(t, "chat1", fieldDateTime)
	f.text(t, "chat1", "tomorrow at ten")

	assert.Contains(t, f.transport.lastSent(), "Failed to update the event:")
	assert.Empty(t, f.gateway.updated)
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestModifyDescription(t *testing.T) {
	f := newFixture(t)
	f.gateway.list = upcomingEvents()

	f.text(t, "chat1", TriggerModify)
	f.button(t, "chat1", "ev-1")
	f.button(t, "chat1", fieldDescription)
	f.text(t, "chat1", "Moved to the big room")

	require.Len(t, f.gateway.updated, 1)
	assert.Equal(t, "Moved to the big room", f.gateway.updated[0].Input.Description)
}

func TestModifyDelete(t *testing.T) {
	f := newFixture(t)
	f.gateway.list = upcomingEvents()

	f.text(t, "chat1", TriggerModify)
	f.button(t, "chat1", "ev-2")
	f.button(t, "chat1", fieldDelete)

	assert.Equal(t, []string{"ev-2"}, f.gateway.deleted)
	assert.Equal(t, "Event deleted.", f.transport.lastSent())
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestModifyListErrorTerminates(t *testing.T) {
	f := newFixture(t)
	f.gateway.listErr = assert.AnError

	f.text(t, "chat1", TriggerModify)

	assert.Contains(t, f.transport.lastSent(), "Failed to load events:")
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestModifyUnknownSelectionTerminates(t *testing.T) {
	f := newFixture(t)
	f.gateway.list = upcomingEvents()

	f.text(t, "chat1", TriggerModify)
	f.button(t, "chat1", "ev-99")

	assert.Equal(t, "Error: unknown event selected.", f.transport.lastSent())
	assert.Zero(t, f.manager.ActiveSessions())
}
