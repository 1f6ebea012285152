package session

import (
	"context"
	"sync"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/notify"
	"alcyxob/greensteps-app/internal/progress"
	"alcyxob/greensteps-app/internal/sensors"

	"github.com/google/uuid"
)

// Manager owns the live workout sessions, keyed by id. Finished sessions are
// removed when stopped; CloseAll sweeps whatever is left on shutdown so no
// ticker or GPS watch outlives the process.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg        Config
	tracker    progress.Tracker
	notifier   notify.Notifier
	watcher    sensors.LocationWatcher // optional, shared by all sessions
	stepSource sensors.StepSource      // optional, shared by all sessions
}

// NewManager creates a session manager.
func NewManager(cfg Config, tracker progress.Tracker, notifier notify.Notifier, watcher sensors.LocationWatcher, steps sensors.StepSource) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		cfg:        cfg,
		tracker:    tracker,
		notifier:   notifier,
		watcher:    watcher,
		stepSource: steps,
	}
}

// StartSession creates a new session for the activity type and immediately
// transitions it to active.
func (m *Manager) StartSession(activity domain.ActivityType) (*Session, error) {
	if activity == "" {
		activity = domain.ActivityRunning
	}
	s := New(uuid.NewString(), activity, m.cfg, m.tracker, m.notifier, m.watcher, m.stepSource)
	if err := s.Start(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// StopSession finishes a session, removes it from the registry and returns
// its frozen data.
func (m *Manager) StopSession(ctx context.Context, id string) (domain.WorkoutSessionData, error) {
	s, err := m.Get(id)
	if err != nil {
		return domain.WorkoutSessionData{}, err
	}
	data, err := s.Stop(ctx)
	if err != nil {
		return domain.WorkoutSessionData{}, err
	}
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return data, nil
}

// CloseAll aborts every remaining session. Used on shutdown.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	remaining := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		remaining = append(remaining, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range remaining {
		s.Close(ctx)
	}
}
