package export

import (
	"errors"
	"fmt"
)

// Sentinel errors for the import taxonomy. Callers branch with errors.Is;
// all of them are hard stops that leave prior state untouched.
var (
	// ErrPrecondition indicates caller misuse: a prerequisite for the
	// operation is missing. Reported to the user, never retried.
	ErrPrecondition = errors.New("precondition failed")

	// ErrMalformedImport indicates the imported file has an unexpected
	// shape (e.g. no metadata row).
	ErrMalformedImport = errors.New("malformed import")

	// ErrNoMatch indicates a structurally valid import whose rows matched
	// none of the loaded conversations — almost always the wrong folder.
	ErrNoMatch = errors.New("no imported ratings matched the loaded conversations")
)

// IdentityMismatchError is returned when the imported file was saved by a
// different annotator. It is an attribution guard: it prevents one rater
// from silently overwriting another's in-progress session.
type IdentityMismatchError struct {
	ImportedID string
	CurrentID  string
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("annotator mismatch: file was saved by %q, current annotator is %q", e.ImportedID, e.CurrentID)
}
