package engine

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is matched by every load failure: missing or unreadable
// file, schema mismatch, bad cell, duplicate key.
var ErrDataUnavailable = errors.New("sales data unavailable")

type DataUnavailableError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

func unavailable(path, reason string, err error) error {
	return &DataUnavailableError{Path: path, Reason: reason, Err: err}
}
