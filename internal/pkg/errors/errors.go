package errors

import "errors"

var (
	// ErrUnauthorized is returned when no caller identity is attached to the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for malformed requests.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoFile is returned when a multipart upload carries no file part.
	ErrNoFile = errors.New("no file found in request")
	// ErrUnsupportedKind is returned for an import kind outside reagents/batches/equipment.
	ErrUnsupportedKind = errors.New("unsupported import kind")
	// ErrPayloadTooLarge is returned when an upload exceeds the configured size limit.
	ErrPayloadTooLarge = errors.New("upload exceeds size limit")
)
