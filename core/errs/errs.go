// Package errs defines the sentinel error taxonomy shared across the
// core packages: every error returned by a core operation wraps one of
// these sentinels with github.com/pkg/errors, so callers can classify
// failures with errors.Is regardless of the call-site context added to
// the message.
package errs

import (
	"errors"

	"github.com/Gamewolf3000/steelgear/driver"
)

// InvalidConfiguration means a caller supplied settings or arguments
// that are structurally invalid (missing required fields, out-of-range
// values, conflicting options).
var InvalidConfiguration = errors.New("invalid configuration")

// OutOfResources means an allocation could not be satisfied: a heap,
// descriptor range, or staging buffer has no room and growth (where
// applicable) was also unable to help.
var OutOfResources = errors.New("out of resources")

// NotFound means a caller referenced an index, category, or identifier
// that does not currently exist.
var NotFound = errors.New("not found")

// Unsupported means a caller requested an operation or combination of
// parameters that this implementation does not handle, such as an
// aliasing or UAV barrier kind the planner does not plan for.
var Unsupported = errors.New("unsupported operation")

// Fatal means the underlying graphics device is in an unrecoverable
// state; callers must tear down everything built on top of the driver
// GPU before attempting to reopen it.
var Fatal = errors.New("fatal device error")

// FromDriver classifies an error returned by the driver package into
// this taxonomy, so call sites that surface driver failures report them
// with the same sentinels as every other core package. A nil err
// returns nil; an err that does not match any known driver sentinel is
// classified as Fatal, since an unrecognized driver failure cannot be
// assumed recoverable.
func FromDriver(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, driver.ErrNoHostMemory), errors.Is(err, driver.ErrNoDeviceMemory):
		return OutOfResources
	case errors.Is(err, driver.ErrNotInstalled), errors.Is(err, driver.ErrNoDevice):
		return InvalidConfiguration
	default:
		return Fatal
	}
}
