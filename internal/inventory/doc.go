// Package inventory keeps each tracked calendar date stocked with enough
// scheduled posts.
//
// Replenishment computes the deficit against a fixed target, requests one
// artifact per missing unit from the content generator, and assigns
// whole-hour time slots starting at the configured hour, wrapping modulo 24.
// Per-unit generation failures are tolerated; the batch persists whatever was
// produced.
package inventory
