package hive

import "fmt"

// APIError is returned for every non-2xx response from TheHive.
// Kind carries the platform's own error "type" field when the response
// body was parseable.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("thehive: %s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("thehive: %s (status %d)", e.Message, e.Status)
}

// Retryable reports whether the error is worth retrying: rate limiting
// and 5xx-class upstream failures. 4xx responses never self-heal.
func (e *APIError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}
