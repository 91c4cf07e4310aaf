package externalApi

import "errors"

var (
	ErrNotFound          = errors.New("error not found")
	ErrTransport         = errors.New("error while dialing api")
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrMalformedResponse = errors.New("malformed response")
)
