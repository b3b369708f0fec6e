// Package conversation loads and sanitizes recorded assistant dialogues
// for human rating. Raw generator output carries machine evaluation scores
// and failure labels; the loader strips those so raters only see turn text
// and goal introductions.
package conversation
