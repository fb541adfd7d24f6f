package gestures

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/inklusif-kerja/gesturecli/utils"
)

const (
	// DefaultMaxSessions bounds the session table; the least recently used
	// session is disposed when it overflows
	DefaultMaxSessions = 1024

	// maxPendingDetections bounds the per-session buffer read by polling clients
	maxPendingDetections = 64
)

var ErrSessionNotFound = errors.New("session not found")

// Notifier receives detections as they happen
type Notifier func(sessionID string, detection Detection)

// Session is a classifier owned by a remote client
type Session struct {
	ID        string
	CreatedAt time.Time

	classifier *Classifier
	notify     Notifier

	mu      sync.Mutex
	pending []Detection
}

func (s *Session) Start(sample PointerSample) {
	s.classifier.Start(sample)
}

func (s *Session) Move(sample PointerSample) {
	s.classifier.Move(sample)
}

func (s *Session) End(sample PointerSample) Kind {
	return s.classifier.End(sample)
}

func (s *Session) Cancel() {
	s.classifier.Cancel()
}

// Apply routes a sample to the operation matching phase. Only the end phase
// can return a gesture synchronously.
func (s *Session) Apply(phase Phase, sample PointerSample) (Kind, error) {
	switch phase {
	case PhaseStart:
		s.Start(sample)
	case PhaseMove:
		s.Move(sample)
	case PhaseEnd:
		return s.End(sample), nil
	case PhaseCancel:
		s.Cancel()
	default:
		return KindNone, fmt.Errorf("unknown phase '%s'", phase)
	}
	return KindNone, nil
}

// Drain returns and clears the buffered detections
func (s *Session) Drain() []Detection {
	s.mu.Lock()
	defer s.mu.Unlock()

	drained := s.pending
	s.pending = nil
	return drained
}

func (s *Session) record(d Detection) {
	s.mu.Lock()
	s.pending = append(s.pending, d)
	if len(s.pending) > maxPendingDetections {
		s.pending = s.pending[len(s.pending)-maxPendingDetections:]
	}
	s.mu.Unlock()

	if s.notify != nil {
		s.notify(s.ID, d)
	}
}

func (s *Session) dispose() {
	s.classifier.Dispose()
}

// Registry tracks live sessions so they can be looked up by id and disposed
// on close, eviction or shutdown.
type Registry struct {
	cfg       Config
	scheduler Scheduler
	sessions  *lru.Cache[string, *Session]
}

// NewRegistry creates a registry holding at most size sessions
func NewRegistry(size int, cfg Config) (*Registry, error) {
	if size <= 0 {
		size = DefaultMaxSessions
	}

	cache, err := lru.NewWithEvict(size, func(id string, session *Session) {
		utils.Verbose("Disposing gesture session %s", id)
		session.dispose()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	return &Registry{
		cfg:       cfg,
		scheduler: SystemScheduler,
		sessions:  cache,
	}, nil
}

// SetScheduler changes the scheduler handed to sessions created afterwards
func (r *Registry) SetScheduler(s Scheduler) {
	r.scheduler = s
}

// Config returns the thresholds given to new sessions
func (r *Registry) Config() Config {
	return r.cfg
}

// Create opens a new session. notify may be nil.
func (r *Registry) Create(notify Notifier) *Session {
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		notify:    notify,
	}

	session.classifier = NewClassifier(r.cfg, Handlers{},
		WithScheduler(r.scheduler),
		WithListener(session.record),
	)

	r.sessions.Add(session.ID, session)
	utils.Verbose("Created gesture session %s", session.ID)
	return session
}

// Get looks up a session by id
func (r *Registry) Get(id string) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id is required")
	}

	session, ok := r.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// Close disposes a session and forgets it
func (r *Registry) Close(id string) error {
	if !r.sessions.Remove(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// CleanupAll disposes every session
func (r *Registry) CleanupAll() {
	if r.sessions.Len() == 0 {
		return
	}

	r.sessions.Purge()
}
