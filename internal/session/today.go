package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitkov/calbot/internal/calendar"
	"github.com/mitkov/calbot/internal/instrumentation"
)

func (m *Manager) startDay(ctx context.Context, s *Session) {
	s.State = StateDayDate
	m.send(ctx, s.ID, "Enter the date (YYYY-MM-DD) or 'today':")
}

// handleDay replies with the schedule for one calendar day.
func (m *Manager) handleDay(ctx context.Context, s *Session, in Input) {
	if in.Kind != InputText {
		return
	}

	var day time.Time
	if strings.EqualFold(strings.TrimSpace(in.Payload), "today") {
		now := m.now().In(m.loc)
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, m.loc)
	} else {
		parsed, err := m.parseDate(in.Payload)
		if err != nil {
			m.send(ctx, s.ID, "Invalid format. Try again.")
			return
		}
		day = parsed
	}

	events, err := m.gateway.ListEvents(ctx, m.calendarID, day, day.Add(24*time.Hour), calendar.ListOptions{})
	if err != nil {
		m.send(ctx, s.ID, fmt.Sprintf("Failed to load events: %v", err))
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}

	if len(events) == 0 {
		m.send(ctx, s.ID, "No events on this day.")
		m.terminate(ctx, s, instrumentation.ResultCompleted)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Schedule for %s:\n", day.Format(dateLayout))
	for _, ev := range events {
		title := ev.Summary
		if title == "" {
			title = "Untitled"
		}
		if ev.AllDay {
			fmt.Fprintf(&b, "- all day — %s\n", title)
		} else {
			fmt.Fprintf(&b, "- %s — %s\n", ev.Start.In(m.loc).Format(clockLayout), title)
		}
	}

	m.send(ctx, s.ID, strings.TrimRight(b.String(), "\n"))
	m.terminate(ctx, s, instrumentation.ResultCompleted)
}
