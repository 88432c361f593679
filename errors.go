package board

import "errors"

// Code is a short, stable error identifier. It implements error so it can be
// used directly as a sentinel with errors.Is.
type Code string

func (c Code) Error() string { return string(c) }

// Error codes returned by this package.
const (
	// A mandatory subsystem (display, touch) could not be configured, or the
	// resource plan is inconsistent. Construction is aborted.
	ErrHardwareInit Code = "hardware_init"

	// An optional subsystem (storage) is not available. The rest of the board
	// keeps working.
	ErrUnavailable Code = "unavailable"

	// A mount or unmount call failed. State reflects the last successful
	// transition.
	ErrTransientIO Code = "transient_io"

	ErrUnknownResource Code = "unknown_resource"
	ErrBusInUse        Code = "bus_in_use"
	ErrPinInUse        Code = "pin_in_use"
)

// Error wraps a failure with its code and the operation that caused it.
type Error struct {
	Code      Code
	Op        string
	Subsystem Subsystem
	Err       error
}

func (e *Error) Error() string {
	s := string(e.Code)
	if e.Subsystem != "" {
		s = string(e.Subsystem) + ": " + s
	}
	if e.Op != "" {
		s += " (" + e.Op + ")"
	}
	if e.Err != nil && e.Err != error(e.Code) {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the code of this error, so that
// errors.Is(err, ErrTransientIO) works on wrapped failures.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// CodeOf extracts the code from err. It returns the empty code for nil and
// ErrHardwareInit for errors that carry no code at all.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return ErrHardwareInit
}

func wrapErr(code Code, sub Subsystem, op string, err error) error {
	return &Error{Code: code, Subsystem: sub, Op: op, Err: err}
}
