// Package reminder provides a one-shot, best-effort, in-process
// scheduler for deferred deliveries such as "remind me five minutes
// before the event starts".
//
// Scheduled entries fire at most once, at or after their target
// instant, and are lost if the process restarts. This is a soft
// scheduling facility, not a durable job queue.
package reminder
