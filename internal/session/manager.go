package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mitkov/calbot/internal/availability"
	"github.com/mitkov/calbot/internal/instrumentation"
	"github.com/mitkov/calbot/internal/logging"
)

// Workflow entry triggers and the global cancel trigger. The transport
// renders these as the persistent main menu.
const (
	TriggerCreate   = "📅 Add event"
	TriggerModify   = "✏️ Edit event"
	TriggerFindTime = "🔍 Find free time"
	TriggerStats    = "📊 Statistics"
	TriggerDay      = "📖 Day schedule"
	TriggerCancel   = "🚫 Cancel"

	commandStart  = "/start"
	commandCancel = "/cancel"
)

// DefaultReminderLead is how long before an event's start the bot-side
// reminder fires.
const DefaultReminderLead = 5 * time.Minute

// calendarReminderMinutes is the calendar-side email/popup reminder
// override attached to every inserted event.
const calendarReminderMinutes = 15

// MenuRows returns the main menu layout.
func MenuRows() [][]string {
	return [][]string{
		{TriggerCreate, TriggerModify},
		{TriggerFindTime, TriggerStats},
		{TriggerDay, TriggerCancel},
	}
}

// Config wires a Manager to its collaborators. Gateway, Availability
// and Transport are required.
type Config struct {
	Gateway      Gateway
	Availability Availability
	Transport    Transport
	Reminders    Reminders
	Metrics      *instrumentation.Metrics
	Logger       *slog.Logger

	// CalendarID is the calendar written to and always included in
	// conflict checks. Defaults to "primary".
	CalendarID string

	// Location governs all date and time-of-day parsing and display.
	// Defaults to time.Local.
	Location *time.Location

	// ReminderLead defaults to DefaultReminderLead.
	ReminderLead time.Duration

	// SlotStep is the free-slot search granularity.
	// Defaults to availability.DefaultStep.
	SlotStep time.Duration

	// Now is a clock hook for tests. Defaults to time.Now.
	Now func() time.Time
}

// Manager owns all active sessions and dispatches inputs to the state
// machine of the workflow each session is running.
type Manager struct {
	gateway      Gateway
	availability Availability
	transport    Transport
	reminders    Reminders
	metrics      *instrumentation.Metrics
	logger       *slog.Logger

	calendarID   string
	loc          *time.Location
	reminderLead time.Duration
	slotStep     time.Duration
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager from the given configuration.
func NewManager(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &instrumentation.Metrics{}
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.ReminderLead <= 0 {
		cfg.ReminderLead = DefaultReminderLead
	}
	if cfg.SlotStep <= 0 {
		cfg.SlotStep = availability.DefaultStep
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Manager{
		gateway:      cfg.Gateway,
		availability: cfg.Availability,
		transport:    cfg.Transport,
		reminders:    cfg.Reminders,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		calendarID:   cfg.CalendarID,
		loc:          cfg.Location,
		reminderLead: cfg.ReminderLead,
		slotStep:     cfg.SlotStep,
		now:          cfg.Now,
		sessions:     make(map[string]*Session),
	}
}

// ActiveSessions returns the number of sessions currently mid-workflow.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// HandleInput processes one user input event. The cancel trigger and
// the workflow entry triggers are handled globally; everything else is
// dispatched to the session's current state. Inputs for one session
// are serialized; inputs for different sessions proceed concurrently.
func (m *Manager) HandleInput(ctx context.Context, in Input) {
	if in.Kind == InputText {
		switch in.Payload {
		case TriggerCancel, commandCancel:
			m.cancel(ctx, in.SessionID)
			return
		case commandStart:
			m.sendMenu(ctx, in.SessionID)
			return
		}
		if wf, ok := entryTrigger(in.Payload); ok {
			m.startWorkflow(ctx, in.SessionID, wf)
			return
		}
	}

	m.mu.Lock()
	s := m.sessions[in.SessionID]
	m.mu.Unlock()

	if s == nil {
		// Free-form input outside any workflow is ignored, matching
		// the absence of a catch-all handler.
		m.logger.Debug("input outside any workflow dropped",
			logging.Session(in.SessionID))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The session may have been cancelled or replaced while this
	// input waited for the lock.
	if s.State == StateTerminated {
		return
	}

	m.logger.Debug("dispatching input",
		logging.Session(s.ID),
		logging.Workflow(s.Workflow.String()),
		logging.State(s.State.String()))

	switch s.Workflow {
	case WorkflowCreate:
		m.handleCreate(ctx, s, in)
	case WorkflowModify:
		m.handleModify(ctx, s, in)
	case WorkflowFindTime:
		m.handleFindTime(ctx, s, in)
	case WorkflowStats:
		m.handleStats(ctx, s, in)
	case WorkflowDay:
		m.handleDay(ctx, s, in)
	}
}

func entryTrigger(text string) (Workflow, bool) {
	switch text {
	case TriggerCreate:
		return WorkflowCreate, true
	case TriggerModify:
		return WorkflowModify, true
	case TriggerFindTime:
		return WorkflowFindTime, true
	case TriggerStats:
		return WorkflowStats, true
	case TriggerDay:
		return WorkflowDay, true
	}
	return WorkflowNone, false
}

// startWorkflow creates a fresh session, abandoning any incomplete one
// for the same conversation, and sends the workflow's first prompt.
func (m *Manager) startWorkflow(ctx context.Context, sessionID string, wf Workflow) {
	s := &Session{ID: sessionID, Workflow: wf}

	m.mu.Lock()
	old := m.sessions[sessionID]
	m.sessions[sessionID] = s
	m.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.State = StateTerminated
		old.mu.Unlock()
		m.metrics.RecordSessionTerminated(ctx, old.Workflow.String(), instrumentation.ResultAbandoned)
		m.logger.Info("abandoned incomplete session",
			logging.Session(sessionID),
			logging.Workflow(old.Workflow.String()))
	}

	m.metrics.RecordSessionStarted(ctx, wf.String())
	logging.WithWorkflow(logging.WithSession(m.logger, sessionID), wf.String()).
		Info("workflow started")

	s.mu.Lock()
	defer s.mu.Unlock()

	switch wf {
	case WorkflowCreate:
		m.startCreate(ctx, s)
	case WorkflowModify:
		m.startModify(ctx, s)
	case WorkflowFindTime:
		m.startFindTime(ctx, s)
	case WorkflowStats:
		m.startStats(ctx, s)
	case WorkflowDay:
		m.startDay(ctx, s)
	}
}

// cancel discards the session's accumulated data without touching the
// calendar. The acknowledgement is sent even when no workflow is
// active.
func (m *Manager) cancel(ctx context.Context, sessionID string) {
	m.mu.Lock()
	s := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if s != nil {
		s.mu.Lock()
		s.State = StateTerminated
		s.mu.Unlock()
		m.metrics.RecordSessionTerminated(ctx, s.Workflow.String(), instrumentation.ResultCancelled)
		m.logger.Info("workflow cancelled",
			logging.Session(sessionID),
			logging.Workflow(s.Workflow.String()))
	}

	m.send(ctx, sessionID, "Operation cancelled.")
}

// terminate tears the session down with the given metrics result.
// Callers must hold s.mu.
func (m *Manager) terminate(ctx context.Context, s *Session, result string) {
	m.mu.Lock()
	if current, ok := m.sessions[s.ID]; ok && current == s {
		delete(m.sessions, s.ID)
	}
	m.mu.Unlock()

	s.State = StateTerminated
	m.metrics.RecordSessionTerminated(ctx, s.Workflow.String(), result)
	m.logger.Info("workflow terminated",
		logging.Session(s.ID),
		logging.Workflow(s.Workflow.String()),
		logging.Status(result))
}

func (m *Manager) sendMenu(ctx context.Context, sessionID string) {
	if err := m.transport.SendMenu(ctx, sessionID, "Choose an action:", MenuRows()); err != nil {
		m.logger.Error("failed to send menu",
			logging.Session(sessionID),
			logging.Err(err))
	}
}

func (m *Manager) send(ctx context.Context, sessionID, text string) {
	if err := m.transport.Send(ctx, sessionID, text); err != nil {
		m.logger.Error("failed to send message",
			logging.Session(sessionID),
			logging.Err(err))
	}
}

func (m *Manager) sendOptions(ctx context.Context, sessionID, text string, options []Option) {
	if err := m.transport.SendOptions(ctx, sessionID, text, options); err != nil {
		m.logger.Error("failed to send options",
			logging.Session(sessionID),
			logging.Err(err))
	}
}

// conflictCalendars is the identifier set checked for busy time: the
// bot's own calendar plus every attendee's.
func (m *Manager) conflictCalendars(attendees []string) []string {
	ids := make([]string, 0, len(attendees)+1)
	ids = append(ids, m.calendarID)
	ids = append(ids, attendees...)
	return ids
}
