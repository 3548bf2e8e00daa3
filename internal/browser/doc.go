// Package browser wraps a Chrome session driven over the DevTools protocol.
// All element expressions are XPath. The session persists a user profile on
// disk so a single manual login survives restarts.
package browser
