// Package output encodes the aligned table as CSV, as a plain-text
// analysis report and as an HTML chart page. Callers decide where the
// bytes go; the pipeline saves them atomically through pkg/storage.
package output
