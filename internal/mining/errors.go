package mining

import (
	"errors"
	"fmt"
)

// ErrInvalidThreshold is returned when a support or confidence threshold is
// out of range.
var ErrInvalidThreshold = errors.New("invalid threshold")

// ThresholdError describes which threshold was rejected and why.
type ThresholdError struct {
	Name  string
	Value float64
	Msg   string
}

func (e *ThresholdError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s %v %s", ErrInvalidThreshold.Error(), e.Name, e.Value, e.Msg)
}

func (e *ThresholdError) Unwrap() error { return ErrInvalidThreshold }

func thresholdf(name string, value float64, format string, args ...any) error {
	return &ThresholdError{Name: name, Value: value, Msg: fmt.Sprintf(format, args...)}
}
