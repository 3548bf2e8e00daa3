// Package scheduler owns the daemon's blocking control loop: dispatch ticks
// at fixed minutes past the hour and replenishment ticks at a fixed interval,
// with one synchronous replenishment run before the loop begins.
package scheduler
