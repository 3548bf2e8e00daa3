// Package preflight provides readiness checks for the external pieces the
// daemon depends on: working directories, the renderer and browser binaries,
// and the ntfy endpoint.
//
// These checks run in two contexts:
//   - The daemon runs RunAll once at startup and refuses to start when a
//     required check fails, rather than discovering the problem mid-tick.
//   - The CLI "shortcast preflight" command prints individual results so an
//     operator can fix the environment before enabling the daemon.
package preflight
