package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Source adapter errors. Adapter failures abort the whole run.
	ErrAdapter          = fmt.Errorf("source adapter failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")

	// Library capability errors. Query failures are transient and degrade
	// a single retrieval attempt to an empty candidate set.
	ErrLibraryQuery     = fmt.Errorf("library query failed")
	ErrArtistNotFound   = fmt.Errorf("artist not found in library")
	ErrLibraryOffline   = fmt.Errorf("library unreachable")
	ErrCacheUnavailable = fmt.Errorf("lookup cache unavailable")

	// Escalation errors
	ErrNoWaiter         = fmt.Errorf("no resolution waiting for a decision")
	ErrEscalationClosed = fmt.Errorf("escalation surface closed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
