// Package sensors defines the narrow interfaces through which the engine
// consumes device data. The real pedometer and GPS live on the phone and
// push readings over the API; the interfaces here let a session also be fed
// by an in-process source (the simulators below, or a future replay source).
package sensors

import (
	"errors"
	"time"
)

// ErrPermissionDenied reports that the user declined a sensor permission.
// It is a recoverable condition: a session still runs without the sensor.
var ErrPermissionDenied = errors.New("sensor permission denied")

// Fix is one GPS reading.
type Fix struct {
	Latitude  float64
	Longitude float64
	Timestamp time.Time
	Altitude  *float64
	Speed     *float64
}

// WatchOptions tunes a location watch. The distance filter must not be finer
// than the device's GPS noise floor or route jitter inflates distance.
type WatchOptions struct {
	Interval    time.Duration // minimum time between fixes
	MinDistance float64       // meters of movement required between fixes
}

// LocationWatcher starts a GPS watch delivering fixes to fn until the
// returned stop function is called. At most one watch per session may be
// active; callers must invoke stop on pause, finish and abort paths.
type LocationWatcher interface {
	Watch(opts WatchOptions, fn func(Fix)) (stop func(), err error)
}

// StepSource exposes a device step counter: availability plus a push-based
// watch of the cumulative (monotonically non-decreasing within a day) count.
type StepSource interface {
	Available() bool
	Watch(fn func(cumulativeSteps int)) (stop func(), err error)
}
