package domain

import "errors"

var (
	ErrInvalidWordCount = errors.New("invalid_word_count")
	ErrNotFound         = errors.New("carta not found")
	ErrDuplicate        = errors.New("carta already submitted")
	ErrSubmissionClosed = errors.New("submission window closed")
	ErrForbidden        = errors.New("forbidden")
)
