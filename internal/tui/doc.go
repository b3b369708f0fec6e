// Package tui implements the terminal survey interface: a conversation
// browser, a transcript-plus-scoring form with the full rating rubric, and
// save/import of the ratings workbook. It is a thin presentation layer; all
// rating semantics live in the session package.
package tui
