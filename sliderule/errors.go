package sliderule

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/aalemi-dev/sliderule-go/stream"
)

var (
	// ErrInvalidConfig is returned for unusable client configuration.
	ErrInvalidConfig = errors.New("invalid sliderule configuration")

	// ErrRequestFailed wraps transport failures sending a request.
	ErrRequestFailed = errors.New("sliderule request failed")

	// ErrDecodeResponse wraps failures decoding a JSON response.
	ErrDecodeResponse = errors.New("failed to decode sliderule response")
)

// ServiceError is a non-2xx answer from the service.
type ServiceError struct {
	API        string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sliderule %s returned status %d", e.API, e.StatusCode)
	}
	return fmt.Sprintf("sliderule %s returned status %d: %s", e.API, e.StatusCode, e.Message)
}

// IsRetryable reports whether repeating the request may succeed: service
// overload, gateway errors, timeouts and aborted streams.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var se *ServiceError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, stream.ErrStreamAborted) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
