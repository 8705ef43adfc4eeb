package session

// Workflow identifies one of the bot's multi-step interactions.
type Workflow int

const (
	WorkflowNone Workflow = iota
	WorkflowCreate
	WorkflowModify
	WorkflowFindTime
	WorkflowStats
	WorkflowDay
)

// String returns the workflow name used in logs and metrics.
func (w Workflow) String() string {
	switch w {
	case WorkflowCreate:
		return "create"
	case WorkflowModify:
		return "modify"
	case WorkflowFindTime:
		return "find_time"
	case WorkflowStats:
		return "stats"
	case WorkflowDay:
		return "day"
	default:
		return "none"
	}
}

// State is one step of a workflow's state machine. Every non-terminal
// state accepts the global cancel trigger in addition to the inputs
// listed for it.
type State int

const (
	StateTerminated State = iota

	// Create-event workflow
	StateCreateTitle
	StateCreateDate
	StateCreateStartTime
	StateCreateEndTime
	StateCreateAttendees
	StateCreateDescriptionChoice
	StateCreateDescriptionText

	// Shared by the create and find-time workflows: awaiting the
	// yes/no answer after a detected overlap.
	StateConfirmOverlap

	// Modify-event workflow
	StateModifySelect
	StateModifyField
	StateModifyNewValue

	// Find-time workflow
	StateFindDate
	StateFindDuration
	StateFindAttendees
	StateFindHours
	StateFindSelectSlot

	// Stats workflow
	StateStatsRange

	// Day-schedule workflow
	StateDayDate
)

var stateNames = map[State]string{
	StateTerminated:              "terminated",
	StateCreateTitle:             "create_title",
	StateCreateDate:              "create_date",
	StateCreateStartTime:         "create_start_time",
	StateCreateEndTime:           "create_end_time",
	StateCreateAttendees:         "create_attendees",
	StateCreateDescriptionChoice: "create_description_choice",
	StateCreateDescriptionText:   "create_description_text",
	StateConfirmOverlap:          "confirm_overlap",
	StateModifySelect:            "modify_select",
	StateModifyField:             "modify_field",
	StateModifyNewValue:          "modify_new_value",
	StateFindDate:                "find_date",
	StateFindDuration:            "find_duration",
	StateFindAttendees:           "find_attendees",
	StateFindHours:               "find_hours",
	StateFindSelectSlot:          "find_select_slot",
	StateStatsRange:              "stats_range",
	StateDayDate:                 "day_date",
}

// String returns the state name used in logs.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
