package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitkov/calbot/internal/calendar"
	"github.com/mitkov/calbot/internal/instrumentation"
	"github.com/mitkov/calbot/internal/logging"
	"github.com/mitkov/calbot/internal/stats"
)

func (m *Manager) startStats(ctx context.Context, s *Session) {
	s.State = StateStatsRange
	m.send(ctx, s.ID, "Enter the period (YYYY-MM-DD - YYYY-MM-DD):")
}

// handleStats parses the requested range, aggregates the events in it
// and replies with a text summary plus a bar chart of hours per day.
func (m *Manager) handleStats(ctx context.Context, s *Session, in Input) {
	if in.Kind != InputText {
		return
	}

	parts := strings.SplitN(in.Payload, " - ", 2)
	if len(parts) != 2 {
		m.send(ctx, s.ID, "Invalid format. Enter the period as YYYY-MM-DD - YYYY-MM-DD:")
		return
	}

	from, err := m.parseDate(parts[0])
	if err != nil {
		m.send(ctx, s.ID, "Invalid format. Enter the period as YYYY-MM-DD - YYYY-MM-DD:")
		return
	}
	to, err := m.parseDate(parts[1])
	if err != nil {
		m.send(ctx, s.ID, "Invalid format. Enter the period as YYYY-MM-DD - YYYY-MM-DD:")
		return
	}

	// The range is inclusive of the final day.
	timeMax := to.Add(24*time.Hour - time.Second)

	events, err := m.gateway.ListEvents(ctx, m.calendarID, from, timeMax, calendar.ListOptions{IncludeCancelled: true})
	if err != nil {
		m.send(ctx, s.ID, fmt.Sprintf("Failed to load events: %v", err))
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}

	report := stats.Compute(events, m.loc)
	m.send(ctx, s.ID, report.Summary(from.Format(dateLayout), to.Format(dateLayout)))

	if png, err := stats.RenderChart(report); err != nil {
		m.logger.Warn("skipping statistics chart",
			logging.Session(s.ID),
			logging.Err(err))
	} else if err := m.transport.SendChart(ctx, s.ID, png); err != nil {
		m.logger.Error("failed to send chart",
			logging.Session(s.ID),
			logging.Err(err))
	}

	m.terminate(ctx, s, instrumentation.ResultCompleted)
}
