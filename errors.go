package qoi

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies why an encode or decode call failed. The core
// distinguishes these internally even though a caller that only wants a
// single pass/fail signal can ignore it; see spec §7.
type ErrorKind int

const (
	_ ErrorKind = iota

	// TruncatedHeader means the input was shorter than the fixed 14-byte
	// header.
	TruncatedHeader
	// BadMagic means the first four bytes were not "qoif".
	BadMagic
	// BadChannels means the header's channel count was not 3 or 4.
	BadChannels
	// BadColorspace means the header's colorspace byte was not 0 or 1.
	BadColorspace
	// TruncatedStream means the opcode stream ended in the middle of a
	// multi-byte opcode (the tag byte was read but its payload bytes
	// were not all available).
	TruncatedStream
	// UnexpectedEOF means the stream ran out of bytes at an opcode
	// boundary before the declared pixel count was reached.
	UnexpectedEOF
	// RunOverflow means a RUN opcode's length would have produced more
	// pixels than the declared width*height budget.
	RunOverflow
	// InvalidArgument means caller-supplied width, height, or channel
	// count was out of range.
	InvalidArgument
	// OutOfMemory means a buffer allocation failed.
	OutOfMemory
)

func (k ErrorKind) String() string {
	switch k {
	case TruncatedHeader:
		return "TruncatedHeader"
	case BadMagic:
		return "BadMagic"
	case BadChannels:
		return "BadChannels"
	case BadColorspace:
		return "BadColorspace"
	case TruncatedStream:
		return "TruncatedStream"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case RunOverflow:
		return "RunOverflow"
	case InvalidArgument:
		return "InvalidArgument"
	case OutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type behind every failure the codec itself
// reports. Read and write errors from the io.Reader or io.Writer given to
// Decode, DecodeConfig or EncodeImage are returned as they are, not as
// *Error. Use [errors.As] to recover the [ErrorKind].
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// newError builds a *Error and attaches a stack trace via pkg/errors so
// that callers doing diagnostics (the CLI, the benchmark harness) can
// print one, while errors.As(err, &qoiErr) still recovers the Kind.
func newError(kind ErrorKind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, msg: fmt.Sprintf("qoi: %s", fmt.Sprintf(format, args...))})
}

// KindOf returns the ErrorKind carried by err, or 0 if err was not
// produced by this package.
func KindOf(err error) ErrorKind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return 0
}
