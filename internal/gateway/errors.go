package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError carries a non-2xx HTTP response from the backend, with the
// server's error message when one was provided.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Code)
}

// IsConnectivity reports whether err belongs to the connectivity failure
// class: no response at all (transport-level failure) or a server fault
// (5xx). Client faults (4xx) are not connectivity failures and must be
// surfaced to the caller rather than masked with demo data.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusInternalServerError
	}
	return true
}

// IsAuthRejected reports whether err is a rejected-credential response.
func IsAuthRejected(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}
