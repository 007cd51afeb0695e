package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned by Partition when the range end precedes the start.
var ErrInvalidRange = errors.New("date range end precedes start")

// TransportError indicates the HTTP exchange with the service failed:
// a network-level error, an exceeded deadline, or a non-2xx status outside
// the tolerated redirect codes.
type TransportError struct {
	Status int // zero when the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("transport error: unexpected status %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError indicates the service returned a 2xx response whose body
// matches the CO-OPS plain-text error signature.
type ServiceError struct {
	Station string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error for station %s: %s", e.Station, e.Message)
}

// TimestampParseError indicates a Date Time field in an otherwise
// successful response could not be parsed. Collection stops rather than
// writing corrupted output.
type TimestampParseError struct {
	Value string
	Err   error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("unparseable timestamp %q: %v", e.Value, e.Err)
}

func (e *TimestampParseError) Unwrap() error { return e.Err }
