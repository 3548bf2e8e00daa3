// Package notifications delivers operational alerts via ntfy.
//
// The default implementation publishes to the topic configured in config.toml
// and gracefully degrades to a no-op when no topic is set. Manual-login
// alerts matter most here: the operator has one grace window to authenticate
// in the visible browser before due posts start skipping ticks.
//
// All dispatch and replenishment code depends only on the Service interface.
package notifications
