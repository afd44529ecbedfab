// This file contains the error kinds used at the archive boundary.

package mpq

import "fmt"

// Kind identifies the taxonomic error kind, per the two-kind error surface:
// structural invariant violations are fatal for the current file, missing
// member files are not.
type Kind int

const (
	// ErrInvalidFormat indicates the bytes do not satisfy a structural
	// invariant: missing magic, truncated read, out-of-range header field,
	// bad skip tag, unknown choice index, invalid type-id reference.
	ErrInvalidFormat Kind = iota + 1

	// ErrFileNotFound indicates lookup succeeded in principle but no hash
	// entry matches the requested name.
	ErrFileNotFound
)

func (k Kind) String() string {
	switch k {
	case ErrInvalidFormat:
		return "invalid format"
	case ErrFileNotFound:
		return "file not found"
	default:
		return "unknown"
	}
}

// FormatError is the error type raised at the archive boundary. It carries a
// Kind so callers can distinguish fatal structural errors from a simple
// absent member file.
type FormatError struct {
	Kind Kind
	msg  string
}

func (e *FormatError) Error() string {
	return e.msg
}

// Is reports whether target is the same Kind sentinel, so callers can use
// errors.Is(err, mpq.ErrInvalidFormat).
func (e *FormatError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// newFormatErrorf builds a *FormatError of the given kind with a formatted message.
func newFormatErrorf(kind Kind, format string, args ...interface{}) *FormatError {
	return &FormatError{Kind: kind, msg: fmt.Sprintf("%s: %s", kind, fmt.Sprintf(format, args...))}
}

// Error makes Kind implement error, so a Kind can be passed as the target
// of errors.Is(err, kind); the match itself is done by FormatError.Is.
func (k Kind) Error() string { return k.String() }
