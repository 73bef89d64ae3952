package schema

import "errors"

var (
	// ErrUnknownType is returned when a record type is not cached and no
	// resolver is configured.
	ErrUnknownType = errors.New("unknown record type")

	// ErrInvalidSchema is returned when a definition is malformed.
	ErrInvalidSchema = errors.New("invalid record schema")

	// ErrResolve wraps failures of the definition side-channel.
	ErrResolve = errors.New("schema resolution failed")
)
