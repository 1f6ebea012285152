package sensors

import (
	"math"
	"sync"
	"time"
)

// SimulatedWalker fakes a pedestrian for development runs without a device:
// it emits GPS fixes along a fixed bearing and a growing step count at a
// steady cadence.
type SimulatedWalker struct {
	StartLat    float64
	StartLon    float64
	SpeedKmh    float64 // ground speed of the fake walker
	StepsPerSec int

	mu    sync.Mutex
	steps int
}

// Available always reports true for the simulator.
func (w *SimulatedWalker) Available() bool { return true }

// Watch emits a cumulative step count once per second.
func (w *SimulatedWalker) Watch(fn func(int)) (func(), error) {
	ticker := time.NewTicker(time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				w.mu.Lock()
				w.steps += w.StepsPerSec
				steps := w.steps
				w.mu.Unlock()
				fn(steps)
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}, nil
}

// WatchLocation emits fixes heading due north at the configured speed.
// Latitude degrees are ~111.19 km apart, which is all the precision a
// simulator needs.
func (w *SimulatedWalker) WatchLocation(opts WatchOptions, fn func(Fix)) (func(), error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	degPerSec := w.SpeedKmh / 3600 / 111.19

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	start := time.Now()
	go func() {
		for {
			select {
			case tick := <-ticker.C:
				elapsed := tick.Sub(start).Seconds()
				fn(Fix{
					Latitude:  w.StartLat + degPerSec*elapsed,
					Longitude: w.StartLon + 0.000001*math.Sin(elapsed), // slight wobble
					Timestamp: tick,
				})
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}, nil
}

// locationWatcherFunc adapts a function to the LocationWatcher interface.
type locationWatcherFunc func(WatchOptions, func(Fix)) (func(), error)

func (f locationWatcherFunc) Watch(opts WatchOptions, fn func(Fix)) (func(), error) {
	return f(opts, fn)
}

// LocationWatcherFor exposes the walker's location stream as a LocationWatcher.
func (w *SimulatedWalker) LocationWatcherFor() LocationWatcher {
	return locationWatcherFunc(w.WatchLocation)
}
