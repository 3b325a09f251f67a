package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound               = errors.New("entity not found")
	ErrAlreadyExists          = errors.New("entity already exists")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrInvalidStateTransition = errors.New("invalid session state transition")
	ErrSessionNotReady        = errors.New("session is not ready to generate")
	ErrReadDatabaseRow        = errors.New("failed to read database row")
	ErrInvalidExecContext     = errors.New("invalid database executor context")

	// Generation pipeline errors. The messages for upload and timeout
	// failures are user-visible and must stay stable.
	ErrNotConfigured      = errors.New("generation API key not configured")
	ErrUploadFailed       = errors.New("Failed to upload photos")
	ErrSubmissionRejected = errors.New("generation request rejected")
	ErrGenerationTimeout  = errors.New("Timeout waiting for video generation")
	ErrTransfer           = errors.New("transfer failed")
)
