// api/errors/sas_errors.go
package errors

import "errors"

var (
	ErrSASNotAuthorized = errors.New("sas not authorized")
	ErrInvalidSASData   = errors.New("invalid sas authorization data")

	ErrCbsdConflict    = errors.New("cbsd already registered")
	ErrCbsdNotFound    = errors.New("cbsd not registered")
	ErrInvalidCbsdData = errors.New("invalid cbsd data")

	ErrGrantNotFound    = errors.New("grant not found")
	ErrGrantTerminated  = errors.New("grant already terminated")
	ErrInvalidGrantData = errors.New("invalid grant data")

	ErrMissingSASAddress = errors.New("missing X-SAS-Address header")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)
