package urlparse

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedURL is returned by Parse when the input has an authority
	// that cannot be split into a host and a port.
	ErrMalformedURL = errors.New("malformed url")

	// ErrUnknownKey is returned when a component key is not one of Keys().
	ErrUnknownKey = errors.New("unknown url part")
)

// ParseError reports why an input was rejected.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedURL, e.Input, e.Reason)
}

// Unwrap makes errors.Is(err, ErrMalformedURL) hold for every ParseError.
func (e *ParseError) Unwrap() error {
	return ErrMalformedURL
}
