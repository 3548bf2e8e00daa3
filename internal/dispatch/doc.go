// Package dispatch runs the per-tick scan over today's ledger entries and
// publishes every pending post whose time slot has passed. Failures leave the
// post pending so the next tick retries it.
package dispatch
