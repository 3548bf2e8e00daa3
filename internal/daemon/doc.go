// Package daemon enforces single-instance execution of the scheduler loop
// via a file lock and gates startup on preflight checks.
package daemon
