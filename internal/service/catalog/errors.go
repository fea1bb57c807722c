package catalog

import (
	"errors"
)

var (
	ErrCourtNotFound    = errors.New("court not found")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
)
