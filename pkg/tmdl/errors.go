package tmdl

import "fmt"

// MalformedRelationshipError reports a relationship block that cannot be
// turned into a Relationship because a structurally required key is missing.
// It is recoverable: callers skip the block and keep going.
type MalformedRelationshipError struct {
	ID      string // header identifier, may be empty
	Line    int    // 1-based line of the block header in the source file
	Missing string // the required key that could not be extracted
}

func (e *MalformedRelationshipError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("malformed relationship %q at line %d: missing %s", e.ID, e.Line, e.Missing)
	}
	return fmt.Sprintf("malformed relationship at line %d: missing %s", e.Line, e.Missing)
}

// Warning records a recoverable problem encountered while parsing a file.
// Warnings never abort the run; the rest of the file is still processed.
type Warning struct {
	Line int
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %v", w.Line, w.Err)
}
