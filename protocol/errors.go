package protocol

import "fmt"

// FormatError is raised when the bit-packed stream does not satisfy a
// structural invariant: a bad skip tag, an unknown choice index, an
// out-of-range type-id reference, or a read past the end of the data.
type FormatError struct {
	msg string
}

func (e *FormatError) Error() string { return e.msg }

func errCorrupted(format string, args ...interface{}) error {
	return &FormatError{msg: "protocol: corrupted: " + fmt.Sprintf(format, args...)}
}
