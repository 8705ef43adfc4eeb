// Package availability resolves busy time across multiple calendars into
// conflict answers and candidate free slots.
//
// It issues combined free/busy queries through a FreeBusySource, merges
// the busy periods of all sources into one canonical busy list, and
// enumerates free slots of a fixed duration inside a search window.
package availability
