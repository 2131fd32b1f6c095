package attendance

import "errors"

var (
	ErrInvalidID        = errors.New("attendance: invalid id")
	ErrInvalidUserID    = errors.New("attendance: invalid user id")
	ErrInvalidLimit     = errors.New("attendance: invalid limit")
	ErrInvalidDateRange = errors.New("attendance: invalid date range")
	ErrRecordNotFound   = errors.New("attendance: record not found")
)
