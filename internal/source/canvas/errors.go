package canvas

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCredentialExpired is returned on 401/403 from any page. It must end the
// whole run, not just the current request.
var ErrCredentialExpired = errors.New("canvas token expired; please reconnect")

// ErrHostNotAllowed is returned before any request to a host off the allow-list.
var ErrHostNotAllowed = errors.New("canvas host is not allow-listed")

// UpstreamError is any other non-2xx answer.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("canvas api error: %s", e.Status)
	}
	return fmt.Sprintf("canvas api error: %d", e.StatusCode)
}

// Temporary reports whether a retry may succeed.
func (e *UpstreamError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrCredentialExpired
	default:
		return &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
}
