// Package services defines the shared error taxonomy for shortcast
// components.
//
// Sentinel markers distinguish external-tool failures, login expiry, upload
// step failures, and malformed persisted content so callers can decide
// whether to skip a unit, leave a record pending, or abort a tick. Wrap
// attaches component and operation context while preserving errors.Is
// classification.
package services
