package session

import "errors"

// ConnectionError marks a streaming-provider failure. Fatal for the
// session it came from only; other sessions keep running.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	if e == nil || e.Err == nil {
		return "session connection error"
	}
	return e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewConnectionError(err error) error {
	if err == nil {
		return nil
	}
	return &ConnectionError{Err: err}
}

func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
