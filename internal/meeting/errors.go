package meeting

import "errors"

// StateError marks an operation invoked against the wrong lifecycle
// state, like starting while a recording is active. Stop with nothing
// recording is benign and does not produce one.
type StateError struct {
	Err error
}

func (e *StateError) Error() string {
	if e == nil || e.Err == nil {
		return "meeting state error"
	}
	return e.Err.Error()
}

func (e *StateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewStateError(err error) error {
	if err == nil {
		return nil
	}
	return &StateError{Err: err}
}

func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
