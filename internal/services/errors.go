package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks failures of exec'd collaborators (renderer, browser).
	ErrExternalTool = errors.New("external tool error")
	// ErrLoginRequired marks a session that still points at the login page
	// after the manual-intervention grace window.
	ErrLoginRequired = errors.New("login required")
	// ErrUploadStep marks a failure inside the upload step sequence.
	ErrUploadStep = errors.New("upload step error")
	// ErrFormat marks malformed persisted content (ledger JSON, HH:MM times).
	ErrFormat = errors.New("format error")
	// ErrNotFound marks missing artifacts or page elements.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks failures expected to clear on a later tick.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
