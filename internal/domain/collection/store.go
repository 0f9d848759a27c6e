package collection

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/tasklens/internal/domain/task"
)

// State reports whether the store has been loaded yet.
type State string

const (
	StateInitializing State = "initializing"
	StateWarm         State = "warm"
)

// Snapshot is an immutable view of every task in the vault. Records is
// shared between readers and must not be modified.
type Snapshot struct {
	Records  []task.Record
	State    State
	Version  int64
	LoadedAt time.Time
}

// Store holds the current snapshot. Readers always see a complete snapshot:
// Replace builds the new one first and then swaps the pointer. Subscribers
// receive snapshots in version order and must not call Replace or
// RequestSnapshot themselves.
type Store struct {
	current atomic.Pointer[Snapshot]

	// publish serializes swap-then-notify
	publish sync.Mutex

	mu          sync.Mutex
	subscribers map[string]subscriber
	seq         int64
	logger      *slog.Logger
}

type subscriber struct {
	order int64
	fn    func(Snapshot)
}

// NewStore creates an empty store in the initializing state.
func NewStore(logger *slog.Logger) *Store {
	s := &Store{
		subscribers: make(map[string]subscriber),
		logger:      logger,
	}
	s.current.Store(&Snapshot{State: StateInitializing})
	return s
}

// Snapshot returns the current snapshot without notifying anyone.
func (s *Store) Snapshot() Snapshot {
	return *s.current.Load()
}

// Replace swaps in a new set of records and notifies subscribers.
func (s *Store) Replace(records []task.Record) Snapshot {
	owned := make([]task.Record, len(records))
	copy(owned, records)

	s.publish.Lock()
	defer s.publish.Unlock()

	next := &Snapshot{
		Records:  owned,
		State:    StateWarm,
		Version:  s.current.Load().Version + 1,
		LoadedAt: time.Now(),
	}
	s.current.Store(next)
	if s.logger != nil {
		s.logger.Debug("task snapshot replaced", "version", next.Version, "tasks", len(owned))
	}
	s.notify(*next)
	return *next
}

// Subscribe registers fn for every future snapshot and returns its id.
func (s *Store) Subscribe(fn func(Snapshot)) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.seq++
	s.subscribers[id] = subscriber{order: s.seq, fn: fn}
	s.mu.Unlock()
	return id
}

// Unsubscribe removes a subscriber. Unknown ids are ignored.
func (s *Store) Unsubscribe(id string) {
	s.mu.Lock()
	delete(s.subscribers, id)
	s.mu.Unlock()
}

// RequestSnapshot re-delivers the current snapshot to every subscriber and
// returns it.
func (s *Store) RequestSnapshot() Snapshot {
	s.publish.Lock()
	defer s.publish.Unlock()

	snap := s.Snapshot()
	s.notify(snap)
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	subs := make([]subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].order < subs[j].order })
	for _, sub := range subs {
		sub.fn(snap)
	}
}

// Find returns the task at origin in the current snapshot.
func (s *Store) Find(origin task.OriginKey) (task.Record, bool) {
	for _, r := range s.Snapshot().Records {
		if r.Origin == origin {
			return r, true
		}
	}
	return task.Record{}, false
}
