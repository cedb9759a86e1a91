// Package history keeps a flat JSON ledger of follower counts observed on
// earlier runs, so the follower series grows from real observations instead
// of being synthesized.
package history
