package worker

import "errors"

var (
	ErrInvalidID       = errors.New("worker: invalid id")
	ErrInvalidWorkerID = errors.New("worker: invalid worker id")
	ErrInvalidRole     = errors.New("worker: invalid role")
	ErrInvalidStatus   = errors.New("worker: invalid status")
	ErrInvalidLimit    = errors.New("worker: invalid limit")
	ErrWorkerNotFound  = errors.New("worker: not found")
)
