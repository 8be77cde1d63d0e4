package lateness

import "errors"

var (
	ErrRecordNotFound = errors.New("lateness record not found")
	ErrAlreadyExcused = errors.New("lateness record is already excused")
)
