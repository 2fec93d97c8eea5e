package app

import (
	"sync"

	"github.com/CrestNiraj12/postpad/domain"
)

// State is the observable state shown by the UI.
type State struct {
	Posts    []domain.Post
	Selected *domain.Post
	Editing  bool

	Loading bool  // A list fetch is in flight
	Saving  bool  // An update is in flight
	LastErr error // Most recent failed operation, cleared by the next success
}

// clone returns a copy that shares no memory with s.
func (s State) clone() State {
	out := s
	if s.Posts != nil {
		out.Posts = make([]domain.Post, len(s.Posts))
		copy(out.Posts, s.Posts)
	}
	if s.Selected != nil {
		sel := *s.Selected
		out.Selected = &sel
	}
	return out
}

// Listener receives a snapshot after every state change.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Store holds State and notifies subscribers when it changes.
// The zero value is not usable; create one with NewStore.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   []subscription
	nextID int
	seq    uint64 // Number of changes applied, guarded by mu

	// Changes are emitted strictly in seq order. mu is never held while
	// waiting here, so listeners may call Snapshot.
	emitMu  sync.Mutex
	emitted uint64
	turn    *sync.Cond
}

// NewStore creates a store holding the empty initial state.
func NewStore() *Store {
	s := &Store{}
	s.turn = sync.NewCond(&s.emitMu)
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn and returns a function that removes it.
// Listeners must not mutate the store.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// update applies fn to the state. Subscribers are notified only when fn
// reports a change.
func (s *Store) update(fn func(st *State) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	snap := s.state.clone()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	for s.emitted != seq-1 {
		s.turn.Wait()
	}
	defer func() {
		s.emitted = seq
		s.turn.Broadcast()
	}()
	for _, sub := range subs {
		sub.fn(snap.clone())
	}
}
