// Package calendar wraps the Google Calendar API with the operations the
// bot depends on: listing events in a window, inserting, updating and
// deleting events, and combined free/busy queries across a set of
// calendar identifiers.
package calendar
