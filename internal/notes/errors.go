package notes

import "errors"

// GenerationError marks a notes-provider failure, including responses
// that could not be parsed into the expected shape. Recoverable via
// user-triggered regeneration.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	if e == nil || e.Err == nil {
		return "notes generation error"
	}
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewGenerationError(err error) error {
	if err == nil {
		return nil
	}
	return &GenerationError{Err: err}
}

func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
