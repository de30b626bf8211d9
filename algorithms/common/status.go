package common

import (
	"errors"
	"fmt"
)

// Status is the result code every feature reports. Its numbering is part of
// the public contract consumed by host bindings, so values must not be
// reordered.
type Status int

const (
	Success Status = iota
	MallocFailed
	BadArgv
	BadVectorSize
	BadState
	DenormalFound
	NoResult
	FeatureNotImplemented
	ArgumentError
)

var statusNames = [...]string{
	Success:               "success",
	MallocFailed:          "malloc failed",
	BadArgv:               "bad argument vector",
	BadVectorSize:         "bad vector size",
	BadState:              "bad state",
	DenormalFound:         "denormal found",
	NoResult:              "no result",
	FeatureNotImplemented: "feature not implemented",
	ArgumentError:         "argument error",
}

// String returns a human readable status name
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// Error makes a Status usable as an error value. Success should never be
// returned as an error; use Err to convert.
func (s Status) Error() string {
	return "xtract: " + s.String()
}

// Err returns nil for Success and the status itself otherwise
func (s Status) Err() error {
	if s == Success {
		return nil
	}
	return s
}

// StatusOf recovers the Status carried by err. A nil error is Success and an
// error that carries no Status is reported as ArgumentError.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return ArgumentError
}
