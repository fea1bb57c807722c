package payments

import "errors"

var ErrParticipantIDRequired = errors.New("participant id is required")
