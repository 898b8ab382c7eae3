package gateway

import "fmt"

// Error kinds returned by gateway calls.
const (
	KindTransport = "transport"
	KindStatus    = "status"
	KindDecode    = "decode"
)

// GatewayError is the shaped failure for any backend or content feed call.
// Kind distinguishes a failed connection from a non-2xx reply or an
// unparseable body so callers can branch without string matching.
type GatewayError struct {
	Kind      string
	Operation string
	Status    int
	Err       error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Operation, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Operation, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func newTransportError(op string, err error) *GatewayError {
	return &GatewayError{Kind: KindTransport, Operation: op, Err: err}
}

func newStatusError(op string, status int) *GatewayError {
	return &GatewayError{Kind: KindStatus, Operation: op, Status: status, Err: fmt.Errorf("unexpected status %d", status)}
}

func newDecodeError(op string, err error) *GatewayError {
	return &GatewayError{Kind: KindDecode, Operation: op, Err: err}
}

// IsConnectionFailure reports whether err is a gateway transport failure
// (connection refused, timeout) as opposed to a backend-level rejection.
func IsConnectionFailure(err error) bool {
	ge, ok := err.(*GatewayError)
	return ok && ge.Kind == KindTransport
}
