package fulfillment

import "errors"

var (
	ErrMappingNotFound     = errors.New("variant mapping not found")
	ErrDuplicateSubmission = errors.New("item already submitted")
	ErrInvalidSubmission   = errors.New("invalid submission")
)
