package easyroutes

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError reports a failed credential exchange with the route service.
// It carries the upstream status and body for diagnostics.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("route service authentication failed: %d - %s", e.Status, e.Body)
}

// APIError reports a non-success response from an authenticated route
// service call, after the single re-authentication retry (if any).
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("route service API error: %d - %s", e.Status, e.Body)
}

// isNotFound reports whether err is a 404-class APIError. Id/number
// lookups translate these into absent-value results.
func isNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}
