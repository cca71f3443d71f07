package domain

import "errors"

var (
	ErrInvalidTitle       = errors.New("invalid_title")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidDateTime    = errors.New("invalid_date_time")
	ErrInvalidCapacity    = errors.New("invalid_capacity")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidMeetingLink = errors.New("invalid_meeting_link")
	ErrNotFound           = errors.New("sobremesa not found")
	ErrForbidden          = errors.New("forbidden")
)
