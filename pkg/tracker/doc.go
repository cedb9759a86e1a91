// Package tracker collects the two time series of a run: the follower count
// from the game's tracking page and the daily number of forum mentions.
//
// FollowerCollector fails closed at the fetch layer and substitutes a
// default baseline one layer up. MentionsCollector fails open per day, so a
// day whose query cannot be answered counts as zero mentions.
package tracker
