package stream

import "errors"

var (
	// ErrInvalidLength means a length prefix declared a size of zero or less.
	ErrInvalidLength = errors.New("invalid record length")

	// ErrRecordTooLarge means a length prefix exceeded the configured maximum.
	ErrRecordTooLarge = errors.New("record exceeds maximum size")

	// ErrMissingType means a record body had no NUL terminated type name.
	ErrMissingType = errors.New("record has no type name")

	// ErrTruncated means the stream ended part way through a record.
	ErrTruncated = errors.New("stream truncated mid-record")

	// ErrStreamAborted wraps transport failures while reading the stream.
	ErrStreamAborted = errors.New("stream aborted")

	// ErrClosed is returned by Feed after Close or a framing error.
	ErrClosed = errors.New("framer closed")
)

// IsFramingError reports whether err came from malformed or truncated
// framing rather than from the transport.
func IsFramingError(err error) bool {
	return errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrRecordTooLarge) ||
		errors.Is(err, ErrMissingType) ||
		errors.Is(err, ErrTruncated)
}
