// Package session implements the per-conversation state machines that
// drive the bot's multi-step workflows: creating an event, modifying an
// event, finding free meeting time, workload statistics, and the daily
// schedule.
//
// Each active conversation owns exactly one Session. A session is
// created when a workflow entry trigger arrives, advances one state per
// user input, and is destroyed on completion, cancellation, or error.
// Starting a new workflow implicitly abandons any incomplete session
// for the same conversation. Inputs for one session are processed
// strictly in arrival order; different sessions proceed independently.
package session
