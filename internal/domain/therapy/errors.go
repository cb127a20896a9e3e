package therapy

import "errors"

var (
	ErrTherapyNotFound    = errors.New("therapy not found")
	ErrTherapyUnavailable = errors.New("therapy is not currently offered")
)
