package session

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/geo"
	"alcyxob/greensteps-app/internal/progress"
	"alcyxob/greensteps-app/internal/sensors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// silentNotifier drops all feedback.
type silentNotifier struct{}

func (silentNotifier) Speak(string)     {}
func (silentNotifier) PlaySound(string) {}
func (silentNotifier) ScheduleReminder(time.Duration, string, string) {}
func (silentNotifier) ScheduleDailyReminder(int, int, string, string) {}

// recordingTracker captures reconciliation calls from finished sessions.
type recordingTracker struct {
	mu      sync.Mutex
	updates []int
}

func (r *recordingTracker) UpdateDailyProgress(ctx context.Context, stepCount int) (domain.DailyStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, stepCount)
	return domain.DailyStats{Steps: stepCount}, nil
}

func (r *recordingTracker) TodayStats(ctx context.Context) (domain.DailyStats, error) {
	return domain.DailyStats{}, nil
}

func (r *recordingTracker) WeeklyStats(ctx context.Context) (progress.WeeklySummary, error) {
	return progress.WeeklySummary{}, nil
}

func (r *recordingTracker) StreakDays(ctx context.Context, goal int) (int, error) {
	return 0, nil
}

func (r *recordingTracker) recorded() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.updates...)
}

// fakeWatcher counts watch starts and stops.
type fakeWatcher struct {
	mu      sync.Mutex
	starts  int
	stops   int
	denyErr error
}

func (w *fakeWatcher) Watch(opts sensors.WatchOptions, fn func(sensors.Fix)) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.denyErr != nil {
		return nil, w.denyErr
	}
	w.starts++
	return func() {
		w.mu.Lock()
		w.stops++
		w.mu.Unlock()
	}, nil
}

func (w *fakeWatcher) counts() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.starts, w.stops
}

// testConfig keeps the real ticker quiet so tests drive time via handleTick.
func testConfig() Config {
	return Config{TickPeriod: time.Hour, GPSInterval: 2 * time.Second, GPSMinDistance: 5}
}

// fakeStepSource hands the subscribed callback to the test so counts can be
// fed deterministically.
type fakeStepSource struct {
	mu     sync.Mutex
	fn     func(int)
	starts int
	stops  int
}

func (f *fakeStepSource) Available() bool { return true }

func (f *fakeStepSource) Watch(fn func(int)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
	f.starts++
	return func() {
		f.mu.Lock()
		f.fn = nil
		f.stops++
		f.mu.Unlock()
	}, nil
}

func (f *fakeStepSource) emit(cumulative int) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		fn(cumulative)
	}
}

func (f *fakeStepSource) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops
}

func newTestSession(watcher sensors.LocationWatcher) (*Session, *recordingTracker) {
	tracker := &recordingTracker{}
	s := New("test-session", domain.ActivityRunning, testConfig(), tracker, silentNotifier{}, watcher, nil)
	return s, tracker
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestSession(nil)
	ctx := context.Background()

	assert.Equal(t, domain.SessionIdle, s.State())

	require.NoError(t, s.Start())
	assert.Equal(t, domain.SessionActive, s.State())

	require.NoError(t, s.Pause())
	assert.Equal(t, domain.SessionPaused, s.State())

	require.NoError(t, s.Resume())
	assert.Equal(t, domain.SessionActive, s.State())

	_, err := s.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionFinished, s.State())

	// finished is terminal
	assert.ErrorIs(t, s.Start(), ErrSessionFinished)
	assert.Error(t, s.Pause())
	assert.Error(t, s.Resume())
	_, err = s.Stop(ctx)
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestSessionInvalidTransitions(t *testing.T) {
	s, _ := newTestSession(nil)

	// No pausing, resuming or stopping from idle.
	assert.Error(t, s.Pause())
	assert.Error(t, s.Resume())
	_, err := s.Stop(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStartIsIdempotent(t *testing.T) {
	s, _ := newTestSession(nil)
	require.NoError(t, s.Start())

	s.mu.Lock()
	first := s.tickerStop
	s.mu.Unlock()
	require.NotNil(t, first)

	// A second start must not stack another ticker.
	require.NoError(t, s.Start())

	s.mu.Lock()
	second := s.tickerStop
	s.mu.Unlock()
	assert.True(t, first == second, "re-entrant start replaced the ticker")

	s.Close(context.Background())
}

// Duration accumulates only while active: 2 ticks, a pause (with a stray
// tick that must not count), then 3 more ticks equals 5 seconds, not more.
func TestDurationAcrossPause(t *testing.T) {
	s, _ := newTestSession(nil)
	require.NoError(t, s.Start())

	s.handleTick()
	s.handleTick()

	require.NoError(t, s.Pause())
	s.handleTick() // frozen; must be ignored

	require.NoError(t, s.Resume())
	s.handleTick()
	s.handleTick()
	s.handleTick()

	data, err := s.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, data.Duration)
}

func TestRecordFixUpdatesDerivedStats(t *testing.T) {
	s, _ := newTestSession(nil)
	require.NoError(t, s.Start())

	// Simulate one minute of elapsed session time.
	for i := 0; i < 60; i++ {
		s.handleTick()
	}

	base := time.Now()
	fixes := []sensors.Fix{
		{Latitude: 52.5200, Longitude: 13.4050, Timestamp: base},
		{Latitude: 52.5210, Longitude: 13.4050, Timestamp: base.Add(2 * time.Second)},
		{Latitude: 52.5220, Longitude: 13.4051, Timestamp: base.Add(4 * time.Second)},
	}
	for _, f := range fixes {
		s.RecordFix(f)
	}

	snap := s.Snapshot()
	require.Len(t, snap.Route, 3)
	assert.Greater(t, snap.Distance, 0.0)
	assert.Greater(t, snap.Pace, 0.0)
	assert.Greater(t, snap.AverageSpeed, 0.0)

	// Incremental distance equals a full route recomputation.
	full := geo.RouteDistanceKm(snap.Route)
	assert.InDelta(t, full, snap.Distance, 1e-9)
}

func TestRecordFixDroppedWhilePaused(t *testing.T) {
	s, _ := newTestSession(nil)
	require.NoError(t, s.Start())
	require.NoError(t, s.Pause())

	s.RecordFix(sensors.Fix{Latitude: 52.52, Longitude: 13.405})
	assert.Empty(t, s.Snapshot().Route)
}

func TestRecordStepCountAccumulatesDeltas(t *testing.T) {
	s, _ := newTestSession(nil)
	require.NoError(t, s.Start())
	for i := 0; i < 120; i++ {
		s.handleTick()
	}

	s.RecordStepCount(1000) // baseline, no steps yet
	assert.Zero(t, s.Snapshot().Steps)

	s.RecordStepCount(1100)
	s.RecordStepCount(1350)

	snap := s.Snapshot()
	assert.Equal(t, 350, snap.Steps)
	// 350*0.04 + 120/60*8 = 14 + 16
	assert.Equal(t, 30, snap.Calories)
	// 350 steps -> 0.28 km -> 49 g
	assert.Equal(t, 49, snap.CO2Saved)
}

func TestRecordStepCountRebaselinesOnReset(t *testing.T) {
	s, _ := newTestSession(nil)
	require.NoError(t, s.Start())

	s.RecordStepCount(5000)
	s.RecordStepCount(5200)
	require.Equal(t, 200, s.Snapshot().Steps)

	// Device counter reset (e.g. midnight rollover): no negative delta.
	s.RecordStepCount(10)
	assert.Equal(t, 200, s.Snapshot().Steps)

	s.RecordStepCount(110)
	assert.Equal(t, 300, s.Snapshot().Steps)
}

func TestRecordStepCountDroppedWhilePaused(t *testing.T) {
	s, _ := newTestSession(nil)
	require.NoError(t, s.Start())
	s.RecordStepCount(100)
	require.NoError(t, s.Pause())

	s.RecordStepCount(500)
	assert.Zero(t, s.Snapshot().Steps)
}

func TestStopReconcilesIntoDailyProgress(t *testing.T) {
	s, tracker := newTestSession(nil)
	require.NoError(t, s.Start())

	s.RecordStepCount(0)
	s.RecordStepCount(1200)

	data, err := s.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200, data.Steps)
	assert.Equal(t, []int{1200}, tracker.recorded())
}

func TestIntermediateUpdatesDoNotTouchDailyProgress(t *testing.T) {
	s, tracker := newTestSession(nil)
	require.NoError(t, s.Start())

	s.RecordStepCount(0)
	s.RecordStepCount(500)
	s.handleTick()
	s.RecordFix(sensors.Fix{Latitude: 52.52, Longitude: 13.405})

	assert.Empty(t, tracker.recorded(), "only Stop may reach the daily tracker")
}

func TestCloseAbortsAndCleansUp(t *testing.T) {
	watcher := &fakeWatcher{}
	s, tracker := newTestSession(watcher)
	require.NoError(t, s.Start())
	require.NoError(t, s.Pause())
	require.NoError(t, s.Resume())

	s.Close(context.Background())

	assert.Equal(t, domain.SessionFinished, s.State())
	starts, stops := watcher.counts()
	assert.Equal(t, starts, stops, "every GPS watch must be stopped")
	assert.Len(t, tracker.recorded(), 1)

	// Closing again is harmless.
	s.Close(context.Background())
}

func TestGPSWatchLifecycle(t *testing.T) {
	watcher := &fakeWatcher{}
	s, _ := newTestSession(watcher)

	require.NoError(t, s.Start())
	assert.True(t, s.GPSActive())
	starts, stops := watcher.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 0, stops)

	require.NoError(t, s.Pause())
	assert.False(t, s.GPSActive())
	_, stops = watcher.counts()
	assert.Equal(t, 1, stops)

	require.NoError(t, s.Resume())
	starts, _ = watcher.counts()
	assert.Equal(t, 2, starts)

	_, err := s.Stop(context.Background())
	require.NoError(t, err)
	starts, stops = watcher.counts()
	assert.Equal(t, starts, stops)
}

// Denied location permission is recoverable: the session proceeds on timer
// and step data alone with distance frozen at zero.
func TestGPSPermissionDenied(t *testing.T) {
	watcher := &fakeWatcher{denyErr: sensors.ErrPermissionDenied}
	s, _ := newTestSession(watcher)

	require.NoError(t, s.Start())
	assert.False(t, s.GPSActive())
	assert.True(t, s.GPSDenied())

	s.handleTick()
	s.RecordStepCount(0)
	s.RecordStepCount(300)

	data, err := s.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300, data.Steps)
	assert.Zero(t, data.Distance)
	assert.Zero(t, data.Pace)
	assert.Zero(t, data.AverageSpeed)
}

// An in-process step source drives the session counter exactly like counts
// pushed over the API, including the baseline report.
func TestStepSourceFeedsSession(t *testing.T) {
	source := &fakeStepSource{}
	tracker := &recordingTracker{}
	s := New("steps", domain.ActivityWalking, testConfig(), tracker, silentNotifier{}, nil, source)

	require.NoError(t, s.Start())
	starts, stops := source.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 0, stops)

	source.emit(100) // baseline
	source.emit(250)
	source.emit(410)
	assert.Equal(t, 310, s.Snapshot().Steps)

	require.NoError(t, s.Pause())
	_, stops = source.counts()
	assert.Equal(t, 1, stops, "pausing must cancel the step subscription")
	source.emit(9000)
	assert.Equal(t, 310, s.Snapshot().Steps)

	require.NoError(t, s.Resume())
	starts, _ = source.counts()
	assert.Equal(t, 2, starts)

	data, err := s.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 310, data.Steps)
	starts, stops = source.counts()
	assert.Equal(t, starts, stops, "every step subscription must be cancelled")
}

func TestAttachMediaOnlyWhileActive(t *testing.T) {
	s, _ := newTestSession(nil)

	assert.ErrorIs(t, s.AttachPhoto("sessions/x/photos/a.jpg"), ErrSessionNotActive)

	require.NoError(t, s.Start())
	require.NoError(t, s.AttachPhoto("sessions/x/photos/a.jpg"))
	require.NoError(t, s.AttachVideo("sessions/x/videos/b.mp4"))

	require.NoError(t, s.Pause())
	assert.ErrorIs(t, s.AttachPhoto("sessions/x/photos/c.jpg"), ErrSessionNotActive)

	snap := s.Snapshot()
	assert.Equal(t, []string{"sessions/x/photos/a.jpg"}, snap.Photos)
	assert.Equal(t, []string{"sessions/x/videos/b.mp4"}, snap.Videos)
}

func TestDetachMedia(t *testing.T) {
	s, _ := newTestSession(nil)
	require.NoError(t, s.Start())
	require.NoError(t, s.AttachPhoto("sessions/x/photos/a.jpg"))
	require.NoError(t, s.AttachVideo("sessions/x/videos/b.mp4"))

	require.NoError(t, s.DetachMedia("sessions/x/photos/a.jpg"))
	assert.Empty(t, s.Snapshot().Photos)
	assert.Len(t, s.Snapshot().Videos, 1)

	assert.ErrorIs(t, s.DetachMedia("sessions/x/photos/a.jpg"), ErrMediaNotFound)

	require.NoError(t, s.Pause())
	assert.ErrorIs(t, s.DetachMedia("sessions/x/videos/b.mp4"), ErrSessionNotActive)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestSession(nil)
	require.NoError(t, s.Start())
	s.RecordFix(sensors.Fix{Latitude: 1, Longitude: 1})

	snap := s.Snapshot()
	snap.Route[0].Latitude = math.NaN()

	assert.Equal(t, 1.0, s.Snapshot().Route[0].Latitude)
}

func TestTickerRunsInRealTime(t *testing.T) {
	tracker := &recordingTracker{}
	cfg := Config{TickPeriod: 10 * time.Millisecond}
	s := New("rt", domain.ActivityWalking, cfg, tracker, silentNotifier{}, nil, nil)
	require.NoError(t, s.Start())

	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().Duration < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	data, err := s.Stop(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, data.Duration, 3)

	// The ticker must stop with the session.
	frozen := data.Duration
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, s.Snapshot().Duration)
}

func TestManagerLifecycle(t *testing.T) {
	tracker := &recordingTracker{}
	m := NewManager(testConfig(), tracker, silentNotifier{}, nil, nil)
	ctx := context.Background()

	s, err := m.StartSession(domain.ActivityCycling)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionActive, s.State())
	assert.Equal(t, domain.ActivityCycling, s.Snapshot().ActivityType)

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	data, err := m.StopSession(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.SessionFinished, s.State())
	assert.Equal(t, domain.ActivityCycling, data.ActivityType)

	_, err = m.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerCloseAll(t *testing.T) {
	tracker := &recordingTracker{}
	m := NewManager(testConfig(), tracker, silentNotifier{}, nil, nil)

	a, err := m.StartSession(domain.ActivityRunning)
	require.NoError(t, err)
	b, err := m.StartSession(domain.ActivityWalking)
	require.NoError(t, err)
	require.NoError(t, b.Pause())

	m.CloseAll(context.Background())

	assert.Equal(t, domain.SessionFinished, a.State())
	assert.Equal(t, domain.SessionFinished, b.State())
	_, err = m.Get(a.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDefaultActivityType(t *testing.T) {
	m := NewManager(testConfig(), &recordingTracker{}, silentNotifier{}, nil, nil)
	s, err := m.StartSession("")
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityRunning, s.Snapshot().ActivityType)
	s.Close(context.Background())
}
