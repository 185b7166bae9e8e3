package coresync

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors returned by the public API. Check with errors.Is / errors.As.
var (
	// ErrMissingToken is returned by NewClient when no API token is set.
	ErrMissingToken = errors.New("coresync: api token required")

	// ErrMissingServiceURL is returned by NewClient when no service URL is set.
	ErrMissingServiceURL = errors.New("coresync: service url required")
)

// StatusError is returned when the service answers with a non-200 status.
// Body holds the raw response body, which is service-defined text.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coresync: server returned %d: %s", e.Code, e.Body)
}

// IsAuthError reports whether err is a 401 from the service,
// meaning the token is invalid or expired.
func IsAuthError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

// IsValidationError reports whether err is a 400 from the service,
// meaning the payload was rejected (e.g. non-positive reps).
func IsValidationError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusBadRequest
}
