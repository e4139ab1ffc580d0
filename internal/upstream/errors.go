package upstream

import "fmt"

// APIError represents a non-200 answer from the pollen data API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pollen API error %d: %s", e.StatusCode, e.Message)
}
