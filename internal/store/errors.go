package store

import "errors"

// PersistenceError marks a disk read/write failure. Callers on the live
// transcript path log these and keep going; they never reach the feed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	if e == nil || e.Err == nil {
		return "persistence error"
	}
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Err: err}
}

func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
