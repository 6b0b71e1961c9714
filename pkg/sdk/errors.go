package copilot

import "fmt"

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("copilot: API error %d: %s", e.Status, e.Message)
}
