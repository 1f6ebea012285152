package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/geo"
	"alcyxob/greensteps-app/internal/metrics"
	"alcyxob/greensteps-app/internal/notify"
	"alcyxob/greensteps-app/internal/progress"
	"alcyxob/greensteps-app/internal/sensors"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidState     = errors.New("invalid session state for this operation")
	ErrSessionFinished  = errors.New("session already finished")
	ErrSessionNotActive = errors.New("session is not active")
	ErrMediaNotFound    = errors.New("media not attached to session")
)

// Config tunes the per-session timers and the GPS watch.
type Config struct {
	TickPeriod     time.Duration // duration ticker period, 1s in production
	GPSInterval    time.Duration // minimum time between GPS fixes
	GPSMinDistance float64       // meters of movement required between fixes
}

// DefaultConfig mirrors the mobile app's tracking settings.
func DefaultConfig() Config {
	return Config{
		TickPeriod:     time.Second,
		GPSInterval:    2 * time.Second,
		GPSMinDistance: 5,
	}
}

// Session is one timed workout. All mutation goes through its methods, which
// serialize on an internal mutex; the ticker goroutine and sensor callbacks
// never touch the data directly.
//
// Lifecycle: idle -> active <-> paused, then (active|paused) -> finished.
// finished is terminal. The session's running totals are independent of the
// daily aggregates; they reconcile into the daily tracker exactly once, when
// the session stops.
type Session struct {
	mu   sync.Mutex
	id   string
	cfg  Config
	data domain.WorkoutSessionData

	state       domain.SessionState
	distance    geo.DistanceAccumulator
	lastCounter int // last device cumulative step count, -1 until first report

	tickerStop chan struct{}
	stopWatch  func()
	stopSteps  func()
	gpsActive  bool
	gpsDenied  bool

	watcher    sensors.LocationWatcher // optional; nil when fixes arrive via API only
	stepSource sensors.StepSource      // optional; nil when counts arrive via API only
	notifier   notify.Notifier
	tracker    progress.Tracker
}

// New creates a session in the idle state.
func New(id string, activity domain.ActivityType, cfg Config, tracker progress.Tracker, notifier notify.Notifier, watcher sensors.LocationWatcher, steps sensors.StepSource) *Session {
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = time.Second
	}
	return &Session{
		id:          id,
		cfg:         cfg,
		state:       domain.SessionIdle,
		lastCounter: -1,
		watcher:     watcher,
		stepSource:  steps,
		notifier:    notifier,
		tracker:     tracker,
		data: domain.WorkoutSessionData{
			Route:        []domain.RoutePoint{},
			Photos:       []string{},
			Videos:       []string{},
			ActivityType: activity,
		},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GPSActive reports whether a location watch is currently running.
func (s *Session) GPSActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gpsActive
}

// GPSDenied reports whether location permission was denied. The session
// keeps running on timer and step data alone in that case.
func (s *Session) GPSDenied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gpsDenied
}

// Snapshot returns a copy of the current session data.
func (s *Session) Snapshot() domain.WorkoutSessionData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyData()
}

// Start begins the workout: idle -> active. Starting an already active
// session is a no-op; a paused session must be resumed instead.
func (s *Session) Start() error {
	s.mu.Lock()
	switch s.state {
	case domain.SessionActive:
		s.mu.Unlock()
		return nil
	case domain.SessionPaused:
		s.mu.Unlock()
		return fmt.Errorf("%w: use Resume for a paused session", ErrInvalidState)
	case domain.SessionFinished:
		s.mu.Unlock()
		return ErrSessionFinished
	}
	s.state = domain.SessionActive
	s.startTickerLocked()
	s.startLocationWatchLocked()
	s.startStepWatchLocked()
	s.mu.Unlock()

	s.notifier.PlaySound("high_activity")
	s.notifier.Speak(notify.MsgSessionStarted)
	return nil
}

// pausedReminderDelay is how long a session may sit paused before the
// one-shot check-in reminder fires.
const pausedReminderDelay = 10 * time.Minute

// Pause freezes an active session: ticker and GPS watch stop, totals hold.
func (s *Session) Pause() error {
	s.mu.Lock()
	if s.state != domain.SessionActive {
		s.mu.Unlock()
		return ErrSessionNotActive
	}
	s.state = domain.SessionPaused
	s.stopTickerLocked()
	s.stopLocationWatchLocked()
	s.stopStepWatchLocked()
	s.mu.Unlock()

	s.notifier.Speak(notify.MsgSessionPaused)
	// One-shot; it fires even if the session has moved on by then, which is
	// the same behavior the scheduled notification had on the device.
	s.notifier.ScheduleReminder(pausedReminderDelay, notify.TitlePausedTooLong, notify.MsgPausedTooLong)
	return nil
}

// Resume continues a paused session: paused -> active.
func (s *Session) Resume() error {
	s.mu.Lock()
	if s.state != domain.SessionPaused {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.state = domain.SessionActive
	s.startTickerLocked()
	s.startLocationWatchLocked()
	s.startStepWatchLocked()
	s.mu.Unlock()

	s.notifier.Speak(notify.MsgSessionResumed)
	return nil
}

// Stop finishes the session from active or paused, feeds the final step
// total into the daily progress tracker (the only point where session data
// touches the daily aggregates) and returns the frozen session data.
func (s *Session) Stop(ctx context.Context) (domain.WorkoutSessionData, error) {
	s.mu.Lock()
	if s.state != domain.SessionActive && s.state != domain.SessionPaused {
		state := s.state
		s.mu.Unlock()
		if state == domain.SessionFinished {
			return domain.WorkoutSessionData{}, ErrSessionFinished
		}
		return domain.WorkoutSessionData{}, ErrInvalidState
	}
	s.state = domain.SessionFinished
	s.stopTickerLocked()
	s.stopLocationWatchLocked()
	s.stopStepWatchLocked()
	final := s.copyData()
	s.mu.Unlock()

	if _, err := s.tracker.UpdateDailyProgress(ctx, final.Steps); err != nil {
		// Daily reconciliation is best-effort; the session result stands.
		log.Printf("ERROR: Failed to reconcile session %s into daily progress: %v", s.id, err)
	}

	s.notifier.PlaySound("achievement")
	s.notifier.Speak(fmt.Sprintf(
		"Amazing workout! You completed %.2f kilometers and saved %dg of CO2!",
		final.Distance, final.CO2Saved))
	return final, nil
}

// Close aborts the session from any non-finished state, guaranteeing timer
// and GPS cleanup even when the caller does not want the summary.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state == domain.SessionActive || state == domain.SessionPaused {
		if _, err := s.Stop(ctx); err != nil {
			log.Printf("ERROR: Failed to stop session %s on close: %v", s.id, err)
		}
	}
}

// RecordFix appends a GPS fix to the route and refreshes the derived
// distance, pace and average speed. Fixes arriving while the session is not
// active are dropped.
func (s *Session) RecordFix(fix sensors.Fix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionActive {
		return
	}
	ts := fix.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	point := domain.RoutePoint{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Timestamp: ts,
		Elevation: fix.Altitude,
	}
	s.data.Route = append(s.data.Route, point)
	s.data.Distance = s.distance.Add(point)
	s.data.Pace = metrics.PaceMinPerKm(s.data.Distance, s.data.Duration)
	s.data.AverageSpeed = metrics.SpeedKmh(s.data.Distance, s.data.Duration)
}

// RecordStepCount feeds the device's cumulative step counter into the
// session. The first report while active sets the baseline; subsequent
// reports accumulate the delta into the session's own step total and refresh
// calories and CO2. A counter that moves backwards (device reset, day
// rollover) re-baselines without producing a negative delta.
func (s *Session) RecordStepCount(cumulative int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionActive {
		return
	}
	if s.lastCounter < 0 || cumulative < s.lastCounter {
		s.lastCounter = cumulative
		return
	}
	delta := cumulative - s.lastCounter
	s.lastCounter = cumulative
	if delta == 0 {
		return
	}
	s.data.Steps += delta
	s.data.Calories = metrics.Calories(s.data.Steps, s.data.Duration)
	s.data.CO2Saved = metrics.CO2SavedGrams(s.data.Steps)
}

// AttachPhoto records a captured photo URI. Only allowed while active, like
// the in-app camera.
func (s *Session) AttachPhoto(uri string) error {
	return s.attachMedia(uri, &s.data.Photos)
}

// AttachVideo records a recorded video URI. Only allowed while active.
func (s *Session) AttachVideo(uri string) error {
	return s.attachMedia(uri, &s.data.Videos)
}

func (s *Session) attachMedia(uri string, list *[]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionActive {
		return ErrSessionNotActive
	}
	*list = append(*list, uri)
	return nil
}

// DetachMedia removes a previously attached photo or video URI. Like attach,
// it is only allowed while the session is active.
func (s *Session) DetachMedia(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionActive {
		return ErrSessionNotActive
	}
	for _, list := range []*[]string{&s.data.Photos, &s.data.Videos} {
		for i, key := range *list {
			if key == uri {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
	}
	return ErrMediaNotFound
}

// handleTick advances the duration by one tick while active. It is driven by
// the ticker goroutine but kept separate so tests can step time
// deterministically.
func (s *Session) handleTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionActive {
		return
	}
	s.data.Duration++
}

// startTickerLocked starts the duration ticker. Idempotent: a ticker that is
// already running is left alone, so a re-entrant start can never stack
// timers. Callers hold s.mu.
func (s *Session) startTickerLocked() {
	if s.tickerStop != nil {
		return
	}
	stop := make(chan struct{})
	s.tickerStop = stop
	go func() {
		ticker := time.NewTicker(s.cfg.TickPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.handleTick()
			case <-stop:
				return
			}
		}
	}()
}

// stopTickerLocked cancels the duration ticker. Callers hold s.mu.
func (s *Session) stopTickerLocked() {
	if s.tickerStop != nil {
		close(s.tickerStop)
		s.tickerStop = nil
	}
}

// startLocationWatchLocked begins the GPS watch when a watcher is attached.
// Exactly one watch runs at a time; permission denial is recorded and the
// session continues in zero-distance mode. Callers hold s.mu.
func (s *Session) startLocationWatchLocked() {
	if s.watcher == nil || s.stopWatch != nil {
		return
	}
	opts := sensors.WatchOptions{
		Interval:    s.cfg.GPSInterval,
		MinDistance: s.cfg.GPSMinDistance,
	}
	stop, err := s.watcher.Watch(opts, s.RecordFix)
	if err != nil {
		if errors.Is(err, sensors.ErrPermissionDenied) {
			s.gpsDenied = true
			log.Printf("WARN: Location permission denied for session %s; tracking distance-free", s.id)
		} else {
			log.Printf("ERROR: Failed to start location tracking for session %s: %v", s.id, err)
		}
		return
	}
	s.stopWatch = stop
	s.gpsActive = true
}

// startStepWatchLocked subscribes the session to an in-process step counter
// when one is attached and available. Counts flow through RecordStepCount
// like API-pushed ones. Callers hold s.mu.
func (s *Session) startStepWatchLocked() {
	if s.stepSource == nil || s.stopSteps != nil || !s.stepSource.Available() {
		return
	}
	stop, err := s.stepSource.Watch(s.RecordStepCount)
	if err != nil {
		log.Printf("ERROR: Failed to start step tracking for session %s: %v", s.id, err)
		return
	}
	s.stopSteps = stop
}

// stopStepWatchLocked cancels the step counter subscription. Callers hold s.mu.
func (s *Session) stopStepWatchLocked() {
	if s.stopSteps != nil {
		s.stopSteps()
		s.stopSteps = nil
	}
}

// stopLocationWatchLocked cancels the GPS watch. Callers hold s.mu.
func (s *Session) stopLocationWatchLocked() {
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
	s.gpsActive = false
}

// copyData clones the session data so callers never share the live slices.
// Callers hold s.mu.
func (s *Session) copyData() domain.WorkoutSessionData {
	data := s.data
	data.Route = append([]domain.RoutePoint(nil), s.data.Route...)
	data.Photos = append([]string(nil), s.data.Photos...)
	data.Videos = append([]string(nil), s.data.Videos...)
	return data
}
