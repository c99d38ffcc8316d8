// Package notify abstracts the platform wake primitive used to suspend
// the runtime thread between ticks (spec.md §4.1): an eventfd on Linux, a
// self-pipe on macOS (kqueue's EVFILT_USER is confined to the kqueue that
// registered it and cannot be observed by the runtime's own event-loop
// kqueue), an auto-reset event on Windows, and an atomic-bool polling
// fallback everywhere else. Signal is safe from any goroutine; Wait and
// Poll are for the consumer goroutine only. Signals coalesce: any number
// of Signal calls before or during a Wait produce at most one wake.
package notify
