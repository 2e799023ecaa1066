package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrEmptyQuery         = fmt.Errorf("search query is empty")
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTicketNotFound     = fmt.Errorf("ticket not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Workflow errors
	ErrSkipNotAllowed = fmt.Errorf("skip is only available on the songs stage")
	ErrSaveFailed     = fmt.Errorf("failed to save ticket")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
