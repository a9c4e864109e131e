package subgraph

import (
	"errors"
	"fmt"
)

// ErrAllEndpointsFailed matches any AllEndpointsFailedError via errors.Is
var ErrAllEndpointsFailed = errors.New("all subgraph endpoints failed")

var errNoEndpoints = errors.New("no subgraph endpoints configured")

// RequestError is a failed page request: transport error, timeout, bad status or malformed body
type RequestError struct {
	Endpoint string
	Query    QueryKind
	Offset   int
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s query at offset %d against %s failed: %v", e.Query, e.Offset, e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// EndpointError means an endpoint could not complete all three queries
type EndpointError struct {
	Endpoint string
	Err      error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("endpoint %s exhausted: %v", e.Endpoint, e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}

// AllEndpointsFailedError is returned when no candidate endpoint produced a full result
type AllEndpointsFailedError struct {
	Tried int
	Last  error
}

func (e *AllEndpointsFailedError) Error() string {
	return fmt.Sprintf("all %d subgraph endpoints failed, last error: %v", e.Tried, e.Last)
}

func (e *AllEndpointsFailedError) Unwrap() error {
	return e.Last
}

func (e *AllEndpointsFailedError) Is(target error) bool {
	return target == ErrAllEndpointsFailed
}
