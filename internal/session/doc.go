// Package session holds the state of one rating run and mediates every
// mutation of it: loading conversations, recording ratings, exporting a
// snapshot, and reconciling a previous export back in. The Session value
// is threaded explicitly through callers; there is no ambient global state.
package session
