// Package ui renders run output for people: colored status lines, the
// end-of-run summary, a progress bar for the mentions window, and a text
// chart of the aligned series styled with lipgloss.
package ui
