package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitkov/calbot/internal/calendar"
)

func TestDayScheduleForDate(t *testing.T) {
	f := newFixture(t)
	f.gateway.list = []calendar.Event{
		{
			ID:      "ev-1",
			Summary: "Standup",
			Start:   time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
			End:     time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:    "ev-2",
			Start: time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 3, 15, 0, 0, 0, time.UTC),
		},
		{
			ID:      "ev-3",
			Summary: "Conference",
			Start:   time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
			AllDay:  true,
		},
	}

	f.text(t, "chat1", TriggerDay)
	f.text(t, "chat1", "2026-03-03")

	require.Len(t, f.gateway.listCalls, 1)
	call := f.gateway.listCalls[0]
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), call.TimeMin)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), call.TimeMax)

	assert.Equal(t, "Schedule for 2026-03-03:\n- 09:00 — Standup\n- 14:00 — Untitled\n- all day — Conference", f.transport.lastSent())
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestDayScheduleTodayKeyword(t *testing.T) {
	f := newFixture(t)

	f.text(t, "chat1", TriggerDay)
	f.text(t, "chat1", "Today")

	require.Len(t, f.gateway.listCalls, 1)
	call := f.gateway.listCalls[0]
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), call.TimeMin)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), call.TimeMax)
}

func TestDayScheduleEmpty(t *testing.T) {
	f := newFixture(t)

	f.text(t, "chat1", TriggerDay)
	f.text(t, "chat1", "2026-03-03")

	assert.Equal(t, "No events on this day.", f.transport.lastSent())
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestDayScheduleInvalidDateReprompts(t *testing.T) {
	f := newFixture(t)

	f.text(t, "chat1", TriggerDay)
	f.text(t, "chat1", "yesterday")

	assert.Equal(t, "Invalid format. Try again.", f.transport.lastSent())
	assert.Equal(t, 1, f.manager.ActiveSessions())

	f.text(t, "chat1", "2026-03-03")
	assert.Zero(t, f.manager.ActiveSessions())
}
