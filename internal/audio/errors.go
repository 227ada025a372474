package audio

import "errors"

// DeviceError marks a capture-device failure. Fatal for the source it
// came from; the caller decides whether the recording can proceed
// without that source.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	if e == nil || e.Err == nil {
		return "audio device error"
	}
	return e.Err.Error()
}

func (e *DeviceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewDeviceError(err error) error {
	if err == nil {
		return nil
	}
	return &DeviceError{Err: err}
}

func IsDeviceError(err error) bool {
	var de *DeviceError
	return errors.As(err, &de)
}
