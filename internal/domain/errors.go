package domain

import "errors"

var (
	// ErrValidation signals a user-correctable bad request.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrBrandNotFound signals an unknown brand ticker.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrNoPriceData signals an empty price series for the requested range.
	ErrNoPriceData = errors.New("no price data available")
	// ErrProvider signals an upstream dependency failure (store, embedding, LLM).
	ErrProvider = errors.New("provider error")
	// ErrMalformedResponse signals unparsable or incomplete structured model output.
	ErrMalformedResponse = errors.New("malformed model response")
)
