// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

const (
	// Document operations
	OpDocumentLoad   Op = "load document"
	OpDocumentReload Op = "reload document"
	OpDocumentRender Op = "render page"

	// Toolbar commands
	OpPrint    Op = "print document"
	OpDownload Op = "save a copy"
	OpCopy     Op = "copy selection"

	// Picker
	OpTreeLoad Op = "list directory"
	OpWatch    Op = "watch document"
)

// Format returns "failed to <op>: <err>", or "" when err is nil.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("failed to %s: %v", op, err)
}

// Error wraps err with the operation so it can be shown with Error().
func Error(op Op, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
