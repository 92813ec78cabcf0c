package device

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// Op identifies which client operation an error came from. Connect
// failures and apply failures have different containment semantics in
// the execution engine, so the distinction is part of the error value.
type Op int

const (
	// OpConnect is the initial reachability probe of a unit
	OpConnect Op = iota
	// OpApply is a configuration write to a unit
	OpApply
)

// String returns a human-readable name for the operation
func (o Op) String() string {
	switch o {
	case OpConnect:
		return "connect"
	case OpApply:
		return "apply"
	default:
		return fmt.Sprintf("Op(%d)", o)
	}
}

// ErrorType classifies what went wrong at the transport level
type ErrorType int

const (
	// ErrTypeNetwork is a generic network-level failure
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout is a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused means the unit refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS is a name resolution failure
	ErrTypeDNS
	// ErrTypeAuth is an authentication failure
	ErrTypeAuth
	// ErrTypeHTTP is a non-success HTTP status from the unit
	ErrTypeHTTP
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "network error"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeConnectionRefused:
		return "connection refused"
	case ErrTypeDNS:
		return "dns error"
	case ErrTypeAuth:
		return "authentication error"
	case ErrTypeHTTP:
		return "http error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError is an error talking to one unit.
type DeviceError struct {
	// Op is the client operation that failed
	Op Op

	// Unit is the unit address the client was talking to
	Unit string

	// Type classifies the failure
	Type ErrorType

	// StatusCode is the HTTP status, when Type is ErrTypeHTTP or ErrTypeAuth
	StatusCode int

	// Message is a human-readable description
	Message string

	// Err is the underlying error, if any
	Err error

	// Retryable reports whether retrying the request may help
	Retryable bool
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %s (caused by: %v)", e.Op, e.Unit, e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Op, e.Unit, e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// classifyNetworkError maps a transport error to a DeviceError with a
// specific type and retry hint.
func classifyNetworkError(op Op, unit string, err error) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &DeviceError{
			Op: op, Unit: unit, Type: ErrTypeTimeout,
			Message: "request timed out", Err: err, Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Op: op, Unit: unit, Type: ErrTypeDNS,
			Message: fmt.Sprintf("cannot resolve %s", dnsErr.Name), Err: err, Retryable: false,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &DeviceError{
			Op: op, Unit: unit, Type: ErrTypeConnectionRefused,
			Message: "unit refused connection", Err: err, Retryable: true,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		classified := classifyNetworkError(op, unit, urlErr.Err)
		if classified != nil {
			return classified
		}
	}

	return &DeviceError{
		Op: op, Unit: unit, Type: ErrTypeNetwork,
		Message: "network error", Err: err, Retryable: true,
	}
}

// newAuthError creates an authentication error (never retryable)
func newAuthError(op Op, unit string) *DeviceError {
	return &DeviceError{
		Op: op, Unit: unit, Type: ErrTypeAuth,
		StatusCode: 401,
		Message:    "authentication failed (check credentials)",
		Retryable:  false,
	}
}

// newHTTPError creates an error for an unexpected HTTP status.
// Server-side statuses are retryable, client-side ones are not.
func newHTTPError(op Op, unit string, statusCode int, message string) *DeviceError {
	return &DeviceError{
		Op: op, Unit: unit, Type: ErrTypeHTTP,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  statusCode >= 500,
	}
}

// IsConnectError reports whether err is a device connect failure
func IsConnectError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Op == OpConnect
}

// IsApplyError reports whether err is a device apply failure
func IsApplyError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Op == OpApply
}

// IsRetryable reports whether retrying the failed request may help
func IsRetryable(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Retryable
}
