package entity

import "errors"

// Domain errors
var (
	// Credential errors
	ErrCredential = errors.New("missing or invalid API credential")

	// Generation errors
	ErrGeneration     = errors.New("text generation failed")
	ErrAuthentication = errors.New("text generation service rejected the credential")
	ErrRateLimited    = errors.New("text generation service is rate limiting requests")
	ErrService        = errors.New("text generation service error")
	ErrEmptyReply     = errors.New("text generation service returned an empty reply")

	// Reply parsing errors
	ErrExtraction = errors.New("structured reply extraction failed")

	// Rendering errors
	ErrRender = errors.New("document rendering failed")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
