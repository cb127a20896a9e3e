package schedule

import "errors"

var (
	ErrInvalidCatalogConfig = errors.New("invalid slot catalog configuration")
	ErrUnrecognizedDate     = errors.New("unrecognized date format")
)
