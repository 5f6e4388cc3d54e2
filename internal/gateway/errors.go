package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuth means the vendor rejected our credentials. There is no point in
// continuing a run after this, every following request will fail the same way.
var ErrAuth = errors.New("gateway rejected credentials")

// StatusError is a non-2xx vendor response that is neither an auth failure
// nor worth retrying further.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received non-OK status code %d for %s", e.Code, e.URL)
}

// retryableStatus reports whether a response status is worth another attempt:
// the vendor asks to slow down (429) or failed on its side (5xx).
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func authStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

func permanentStatus(code int) bool {
	return code == http.StatusNotFound || code == http.StatusGone
}

// IsAuth reports whether err is terminal for the whole run.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsPermanent reports whether err means the target URL itself is dead and the
// job should be skipped instead of failed.
func IsPermanent(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return permanentStatus(se.Code)
	}
	return false
}
