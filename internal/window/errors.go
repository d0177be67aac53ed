package window

import (
	"errors"
	"fmt"

	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/shape"
)

var (
	// ErrNonShapeableWindow is returned for nil, destroyed or otherwise
	// unshaped windows.
	ErrNonShapeableWindow = errors.New("window is not shapeable")
	// ErrInvalidShapeArgument is returned for a missing or mismatched surface.
	ErrInvalidShapeArgument = errors.New("invalid shape argument")
	// ErrWindowLacksShape is returned by GetShapeMode before the first
	// successful SetShape.
	ErrWindowLacksShape = errors.New("window lacks a shape")
	// ErrShaperUnavailable is returned by Create when the platform cannot
	// shape the window.
	ErrShaperUnavailable = errors.New("no shaper available for window")
)

// ResultCode is the stable integer form of a shaped window result.
type ResultCode int

const (
	Success              ResultCode = 0
	NonShapeableWindow   ResultCode = -1
	InvalidShapeArgument ResultCode = -2
	WindowLacksShape     ResultCode = -3
	DriverFailure        ResultCode = -4
)

func (c ResultCode) String() string {
	switch c {
	case Success:
		return "success"
	case NonShapeableWindow:
		return "non-shapeable window"
	case InvalidShapeArgument:
		return "invalid shape argument"
	case WindowLacksShape:
		return "window lacks shape"
	case DriverFailure:
		return "driver failure"
	default:
		return fmt.Sprintf("ResultCode(%d)", int(c))
	}
}

// Code maps err to its result code. Errors that are not one of the
// package sentinels came from the platform driver.
func Code(err error) ResultCode {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrNonShapeableWindow), errors.Is(err, ErrShaperUnavailable):
		return NonShapeableWindow
	case errors.Is(err, ErrInvalidShapeArgument),
		errors.Is(err, shape.ErrInvalidArgument),
		errors.Is(err, shape.ErrOutOfBounds),
		errors.Is(err, pixel.ErrInvalidSurface),
		errors.Is(err, pixel.ErrInvalidFormat):
		return InvalidShapeArgument
	case errors.Is(err, ErrWindowLacksShape):
		return WindowLacksShape
	default:
		return DriverFailure
	}
}

// ErrorKind groups errors by who has to act on them.
type ErrorKind int

const (
	NoError ErrorKind = iota
	// ConfigurationError means the caller passed bad arguments.
	ConfigurationError
	// CapabilityError means the platform cannot shape the window.
	CapabilityError
	// StateError means the operation does not fit the window's lifecycle state.
	StateError
	// DriverError means the native shape request failed.
	DriverError
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "none"
	case ConfigurationError:
		return "configuration"
	case CapabilityError:
		return "capability"
	case StateError:
		return "state"
	case DriverError:
		return "driver"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, ErrShaperUnavailable):
		return CapabilityError
	case errors.Is(err, ErrNonShapeableWindow), errors.Is(err, ErrWindowLacksShape):
		return StateError
	}
	if Code(err) == InvalidShapeArgument {
		return ConfigurationError
	}
	return DriverError
}
