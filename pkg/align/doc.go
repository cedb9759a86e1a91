// Package align merges the follower and mentions series into one table keyed
// by date and derives the change, rolling-average and correlation columns.
//
// Derived columns only appear once the table is long enough: changes from
// two rows, 7-day rolling means from seven, and the whole-series Pearson
// correlation from ten. The correlation is the same scalar on every row.
package align
