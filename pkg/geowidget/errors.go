package geowidget

import "errors"

var (
	// ErrMissingToken is returned when Props carry no authentication token
	ErrMissingToken = errors.New("geowidget: token is required")
	// ErrUnknownLanguage is returned for a language code the widget does not support
	ErrUnknownLanguage = errors.New("geowidget: unknown language")
	// ErrUnknownConfig is returned for a configuration mode the widget does not support
	ErrUnknownConfig = errors.New("geowidget: unknown config mode")
	// ErrUnknownEnvironment is returned for an asset environment other than production or sandbox
	ErrUnknownEnvironment = errors.New("geowidget: unknown environment")
	// ErrUnknownMethod is returned by Dispatch for a command outside the Handle vocabulary
	ErrUnknownMethod = errors.New("geowidget: unknown method")
	// ErrBadArgs is returned by Dispatch when command arguments do not match the method
	ErrBadArgs = errors.New("geowidget: bad arguments")
)
