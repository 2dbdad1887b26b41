package ui

import (
	"fmt"
	"io"
	"strings"
)

// NameValue renders one "name value" line with the name right-aligned in a
// column of the given width. An empty name yields a blank column of the same
// width so continuation lines stay aligned under the value.
func NameValue(name, value string, width int) string {
	label := fmt.Sprintf("%*s", width, name)
	if strings.TrimSpace(name) != "" {
		label = StyleKey.Render(label)
	}
	return label + " " + value
}

// PrintNameValue writes a NameValue line to w.
func PrintNameValue(w io.Writer, name, value string, width int) {
	fmt.Fprintln(w, NameValue(name, value, width))
}

// StatusLine renders a colored status word right-aligned in width followed by a message,
// e.g. "Dry-running call (skip with --skip-dry-run)".
func StatusLine(status, msg string, width int) string {
	return StyleSuccess.Render(fmt.Sprintf("%*s", width, status)) + " " + msg
}
