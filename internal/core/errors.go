package core

import "errors"

var (
	// ErrOracleUnavailable is returned when the blacklist check request failed.
	ErrOracleUnavailable = errors.New("blacklist oracle unavailable")
	// ErrControlNotFound is returned when no skip control could be discovered on the page.
	ErrControlNotFound = errors.New("skip control not found")
	// ErrUnknownPage is returned when a request names a page that is not monitored.
	ErrUnknownPage = errors.New("unknown page")
)
