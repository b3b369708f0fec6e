// Package export flattens a rating store into the tabular relations
// persisted between sessions, and reconciles a previously exported pair of
// relations back onto a freshly loaded conversation set. Reconciliation is
// row-tolerant but enforces two global guards: the importing annotator must
// match the file's, and at least one row must attach to a loaded
// conversation.
package export
