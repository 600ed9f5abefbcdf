package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when an upstream answered with a non-success status.
// Callers use it to tell "the server responded" apart from "the request never completed".
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// AsStatusError unwraps err into a *StatusError if one is in the chain.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsTooManyRequests reports whether err carries a 429 response.
func IsTooManyRequests(err error) bool {
	se, ok := AsStatusError(err)
	return ok && se.StatusCode == http.StatusTooManyRequests
}
