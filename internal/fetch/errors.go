package fetch

import "errors"

// Sentinel errors for the fetch package.
var (
	// ErrUnknownType is returned when an asset's media type cannot be
	// classified and it therefore has no destination directory.
	ErrUnknownType = errors.New("unrecognized media type")

	// ErrBadStatus is returned when the server responds with a
	// non-success HTTP status.
	ErrBadStatus = errors.New("unexpected http status")
)
