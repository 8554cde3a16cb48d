package blog

import "errors"

// Fatal pipeline errors. Anything else is degraded (stage substitutes a safe
// default) or advisory (logged only).
var (
	// ErrMalformedResponse indicates no JSON object could be located in a
	// generation response where one is mandatory (topic research).
	ErrMalformedResponse = errors.New("no JSON object in generation response")

	// ErrMissingContent indicates a draft arrived without article content.
	ErrMissingContent = errors.New("draft has no content")
)
