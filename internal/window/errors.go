package window

import "errors"

var (
	// ErrNoScheduler is returned when a window is built without a frame scheduler.
	ErrNoScheduler = errors.New("no frame scheduler")
	// ErrNoSurface is returned when a window is built without a surface.
	ErrNoSurface = errors.New("no surface")
	// ErrNoIdentity is returned when a window is built without an identity.
	ErrNoIdentity = errors.New("no window identity")
)

// ConfigurationError reports structural misuse: a window operation used
// outside the environment it needs. It is never retried or absorbed.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Op + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
