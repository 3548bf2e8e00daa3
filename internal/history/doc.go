// Package history keeps an append-only SQLite audit trail of upload attempts.
// The ledger only records the current status of each post; the history store
// answers what happened on which dispatch tick, including retries.
package history
