package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrFacetsUnavailable  = fmt.Errorf("no facet data for track")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Application state errors
	ErrNoTracks           = fmt.Errorf("no tracks loaded, fetch a playlist first")
	ErrAnalysisRunning    = fmt.Errorf("analysis already running")
	ErrAnalysisSuperseded = fmt.Errorf("analysis superseded")

	// Device errors
	ErrUnknownDevice = fmt.Errorf("unknown device type")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
