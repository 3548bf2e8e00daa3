// Package ledger persists the date-keyed post schedule and exposes helpers
// for driving post lifecycle.
//
// The Store reads the whole JSON file on load and rewrites it on save,
// normalizing the legacy single-record date shape to a sequence and
// defaulting missing statuses to pending. Treat this package as the single
// source of truth for ledger semantics; records transition pending to
// uploaded exactly once and are never deleted by this system.
package ledger
