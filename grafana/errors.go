package grafana

import (
	"errors"
	"fmt"
	"net/http"
)

// ClientError is returned when the Grafana API answers with a non-2xx status.
type ClientError struct {
	Method     string
	Path       string
	StatusCode int

	// Message is the server's "message" field when the body carried one,
	// otherwise the raw body.
	Message string
}

func (e *ClientError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("grafana: %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("grafana: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a [ClientError] with status 404.
func IsNotFound(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.StatusCode == http.StatusNotFound
}
