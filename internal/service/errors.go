package service

import "errors"

var (
	ErrMissingFields  = errors.New("missing required booking fields")
	ErrUnknownService = errors.New("unknown service")
	ErrInvalidStatus  = errors.New("invalid booking status")
)
