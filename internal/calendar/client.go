package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mitkov/calbot/internal/google"
	"github.com/mitkov/calbot/internal/instrumentation"
	"github.com/mitkov/calbot/internal/interval"
	"github.com/mitkov/calbot/internal/logging"
)

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// HasToken checks if a valid OAuth token exists
func HasToken() bool {
	return google.HasToken()
}

// GetAuthURL returns the OAuth URL for user authorization
func GetAuthURL() (string, error) {
	return google.GetAuthURL()
}

// SaveToken exchanges an authorization code for tokens and saves them
func SaveToken(ctx context.Context, authCode string) error {
	return google.SaveToken(ctx, authCode)
}

// NewClient creates a new Calendar client with OAuth2 authentication.
// Returns an error if no valid token exists - use HasToken() to check first.
func NewClient(ctx context.Context, logger *slog.Logger, metrics *instrumentation.Metrics) (*Client, error) {
	httpClient, err := google.GetHTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found, please authorize access first: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}

	return &Client{svc: svc, logger: logger, metrics: metrics}, nil
}

// record reports one finished API operation. Meant to be deferred with
// a named error return.
func (c *Client) record(ctx context.Context, operation string, start time.Time, err *error) {
	status := logging.StatusSuccess
	if *err != nil {
		status = logging.StatusError
	}
	c.metrics.RecordGatewayOperation(ctx, operation, status, time.Since(start))
}

// ListEvents lists single event instances in a calendar within
// [timeMin, timeMax), ordered by start time ascending. Recurring events
// are expanded into instances.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, opts ListOptions) (_ []Event, err error) {
	defer c.record(ctx, "list", time.Now(), &err)

	call := c.svc.Events.List(calendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	if opts.MaxResults > 0 {
		call = call.MaxResults(opts.MaxResults)
	}
	if opts.IncludeCancelled {
		call = call.ShowDeleted(true)
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, toEvent(item))
	}

	c.logger.Debug("listed events",
		logging.Calendar(calendarID),
		slog.Int("count", len(events)))
	return events, nil
}

// InsertEvent creates a new calendar event and returns it with its
// assigned identifier and HTML link.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, input EventInput) (_ *Event, err error) {
	defer c.record(ctx, "insert", time.Now(), &err)

	created, err := c.svc.Events.Insert(calendarID, toGoogleEvent(input)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	event := toEvent(created)
	c.logger.Info("event inserted",
		logging.Calendar(calendarID),
		logging.EventID(event.ID))
	return &event, nil
}

// UpdateEvent updates an existing calendar event. Zero-valued input
// fields keep the existing values.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, input EventInput) (_ *Event, err error) {
	defer c.record(ctx, "update", time.Now(), &err)

	existing, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing event: %w", err)
	}

	if input.Summary != "" {
		existing.Summary = input.Summary
	}
	if input.Description != "" {
		existing.Description = input.Description
	}

	tz := input.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	if !input.Start.IsZero() {
		existing.Start = &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: tz,
		}
	}
	if !input.End.IsZero() {
		existing.End = &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: tz,
		}
	}

	if len(input.Attendees) > 0 {
		existing.Attendees = nil
		for _, email := range input.Attendees {
			existing.Attendees = append(existing.Attendees, &calendar.EventAttendee{Email: email})
		}
	}

	updated, err := c.svc.Events.Update(calendarID, eventID, existing).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	event := toEvent(updated)
	c.logger.Info("event updated",
		logging.Calendar(calendarID),
		logging.EventID(eventID))
	return &event, nil
}

// DeleteEvent deletes a calendar event
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) (err error) {
	defer c.record(ctx, "delete", time.Now(), &err)

	if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	c.logger.Info("event deleted",
		logging.Calendar(calendarID),
		logging.EventID(eventID))
	return nil
}

// QueryFreeBusy checks availability for a set of calendar identifiers in
// [timeMin, timeMax) with one combined query. The result maps each
// identifier to its busy intervals within the window.
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) (_ map[string][]interval.Interval, err error) {
	defer c.record(ctx, "freebusy", time.Now(), &err)

	items := make([]*calendar.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	query := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}

	result, err := c.svc.Freebusy.Query(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	busy := make(map[string][]interval.Interval, len(result.Calendars))
	for calID, cal := range result.Calendars {
		entries, err := busyPeriodsToIntervals(cal.Busy)
		if err != nil {
			return nil, fmt.Errorf("malformed freebusy response for %s: %w", calID, err)
		}
		busy[calID] = entries

		for _, calErr := range cal.Errors {
			c.logger.Warn("freebusy reported a calendar error",
				logging.Calendar(calID),
				slog.String("reason", calErr.Reason))
		}
	}

	return busy, nil
}

// busyPeriodsToIntervals converts wire-format busy periods. A period
// that fails to parse is an error, not free time.
func busyPeriodsToIntervals(periods []*calendar.TimePeriod) ([]interval.Interval, error) {
	var entries []interval.Interval
	for _, p := range periods {
		if p == nil {
			continue
		}
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			return nil, fmt.Errorf("bad busy period start %q: %w", p.Start, err)
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			return nil, fmt.Errorf("bad busy period end %q: %w", p.End, err)
		}
		iv, err := interval.New(start, end)
		if err != nil {
			return nil, err
		}
		entries = append(entries, iv)
	}
	return entries, nil
}
