package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCreateToDescription(t *testing.T, f *fixture, date, start, end, attendees string) {
	t.Helper()
	f.text(t, "chat1", TriggerCreate)
	f.text(t, "chat1", "Team sync")
	f.text(t, "chat1", date)
	f.text(t, "chat1", start)
	f.text(t, "chat1", end)
	f.text(t, "chat1", attendees)
}

func TestCreateHappyPath(t *testing.T) {
	f := newFixture(t)

	runCreateToDescription(t, f, "2026-03-03", "14:00", "15:00", "none")
	f.text(t, "chat1", "no")

	require.Len(t, f.gateway.inserted, 1)
	ins := f.gateway.inserted[0]
	assert.Equal(t, "primary", ins.CalendarID)
	assert.Equal(t, "Team sync", ins.Input.Summary)
	assert.Equal(t, time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC), ins.Input.Start)
	assert.Equal(t, time.Date(2026, 3, 3, 15, 0, 0, 0, time.UTC), ins.Input.End)
	assert.Empty(t, ins.Input.Attendees)
	assert.EqualValues(t, 15, ins.Input.ReminderMinutes)

	require.Len(t, f.avail.conflictCalls, 1)
	assert.Equal(t, []string{"primary"}, f.avail.conflictCalls[0].CalendarIDs)

	require.Len(t, f.scheduler.scheduled, 1)
	assert.Equal(t, time.Date(2026, 3, 3, 13, 55, 0, 0, time.UTC), f.scheduler.scheduled[0].At)

	assert.Contains(t, f.transport.sent, "A reminder will be sent 5 minutes before the start.")
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestCreatePrompts(t *testing.T) {
	f := newFixture(t)

	runCreateToDescription(t, f, "2026-03-03", "14:00", "15:00", "none")

	assert.Equal(t, []string{
		"Enter the event title:",
		"Enter the event date (YYYY-MM-DD):",
		"Enter the start time (HH:MM):",
		"Enter the end time (HH:MM):",
		"Enter attendee emails separated by commas (or 'none'):",
		"Add a description? (yes/no)",
	}, f.transport.sent)
}

func TestCreateWithAttendeesChecksTheirCalendars(t *testing.T) {
	f := newFixture(t)

	runCreateToDescription(t, f, "2026-03-03", "14:00", "15:00", "alice@example.com, bob@example.com")
	f.text(t, "chat1", "no")

	require.Len(t, f.avail.conflictCalls, 1)
	assert.Equal(t, []string{"primary", "alice@example.com", "bob@example.com"}, f.avail.conflictCalls[0].CalendarIDs)

	require.Len(t, f.gateway.inserted, 1)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, f.gateway.inserted[0].Input.Attendees)
}

func TestCreateDescriptionYesCollectsText(t *testing.T) {
	f := newFixture(t)

	runCreateToDescription(t, f, "2026-03-03", "14:00", "15:00", "none")
	f.text(t, "chat1", "yes")
	assert.Equal(t, "Enter the event description:", f.transport.lastSent())

	f.text(t, "chat1", "Quarterly planning notes")

	require.Len(t, f.gateway.inserted, 1)
	assert.Equal(t, "Quarterly planning notes", f.gateway.inserted[0].Input.Description)
}

func TestCreateFreeTextAtChoiceBecomesDescription(t *testing.T) {
	f := newFixture(t)

	runCreateToDescription(t, f, "2026-03-03", "14:00", "15:00", "none")
	f.text(t, "chat1", "Bring the roadmap deck")

	require.Len(t, f.gateway.inserted, 1)
	assert.Equal(t, "Bring the roadmap deck", f.gateway.inserted[0].Input.Description)
}

func TestCreateNoReminderForImminentEvent(t *testing.T) {
	f := newFixture(t)

	// Starts three minutes from the fixed clock: inside the lead.
	runCreateToDescription(t, f, "2026-03-02", "10:03", "10:30", "none")
	f.text(t, "chat1", "no")

	require.Len(t, f.gateway.inserted, 1)
	assert.Empty(t, f.scheduler.scheduled)
	assert.NotContains(t, f.transport.sent, "A reminder will be sent 5 minutes before the start.")
}

func TestCreateConflictConfirmed(t *testing.T) {
	f := newFixture(t)
	f.avail.conflict = true

	runCreateToDescription(t, f, "2026-03-03", "14:00", "15:00", "none")
	f.text(t, "chat1", "no")

	require.Len(t, f.transport.options, 1)
	assert.Equal(t, "The time overlaps another event. Create it anyway?", f.transport.options[0].Text)
	assert.Empty(t, f.gateway.inserted)

	f.button(t, "chat1", confirmYes)

	require.Len(t, f.gateway.inserted, 1)
	// Knowingly booking over a conflict gets no bot-side reminder.
	assert.Empty(t, f.scheduler.scheduled)
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestCreateConflictDeclined(t *testing.T) {
	f := newFixture(t)
	f.avail.conflict = true

	runCreateToDescription(t, f, "2026-03-03", "14:00", "15:00", "none")
	f.text(t, "chat1", "no")
	f.button(t, "chat1", confirmNo)

	assert.Equal(t, "Event creation cancelled.", f.transport.lastSent())
	assert.Empty(t, f.gateway.inserted)
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestCreateTextWhileAwaitingConfirmationIgnored(t *testing.T) {
	f := newFixture(t)
	f.avail.conflict = true

	runCreateToDescription(t, f, "2026-03-03", "14:00", "15:00", "none")
	f.text(t, "chat1", "no")

	before := len(f.transport.sent)
	f.text(t, "chat1", "yes please")
	assert.Len(t, f.transport.sent, before)
	assert.Equal(t, 1, f.manager.ActiveSessions())
}

func TestCreateInvalidDateTerminates(t *testing.T) {
	f := newFixture(t)

	runCreateToDescription(t, f, "March 3rd", "14:00", "15:00", "none")
	f.text(t, "chat1", "no")

	assert.Contains(t, f.transport.lastSent(), "Failed to create the event:")
	assert.Empty(t, f.gateway.inserted)
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestCreateEndBeforeStartTerminates(t *testing.T) {
	f := newFixture(t)

	runCreateToDescription(t, f, "2026-03-03", "15:00", "14:00", "none")
	f.text(t, "chat1", "no")

	assert.Contains(t, f.transport.lastSent(), "Failed to create the event:")
	assert.Empty(t, f.gateway.inserted)
	assert.Zero(t, f.manager.ActiveSessions())
}

func TestCreateConflictCheckErrorTerminates(t *testing.T) {
	f := newFixture(t)
	f.avail.conflictErr = assert.AnError

	runCreateToDescription(t, f, "2026-03-03", "14:00", "15:00", "none")
	f.text(t, "chat1", "no")

	assert.Contains(t, f.transport.lastSent(), "Failed to create the event:")
	assert.Empty(t, f.gateway.inserted)
	assert.Zero(t, f.manager.ActiveSessions())
}
