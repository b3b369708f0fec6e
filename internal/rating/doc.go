// Package rating defines the rating record and the in-process store that
// tracks the latest rating and done marker per conversation for the active
// session. Ratings are last-write-wins; no history is retained.
package rating
