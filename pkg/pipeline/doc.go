// Package pipeline runs one tracking pass end to end.
//
// The follower collector and the mentions collector run concurrently, each
// with its own fetch session, and are joined before alignment. The aligned
// table is then written as CSV, as a text report and, on request, as a
// text chart. Files are written atomically so cancellation never leaves a
// partial artifact.
package pipeline
