// Package session tracks short-lived per-user conversation state: what
// the bot expects from the user's next free-text message. State lives
// in memory only and is lost on restart.
package session

import "sync"

// Kind enumerates the conversation states.
type Kind int

const (
	// Idle means the next message starts a fresh interaction.
	Idle Kind = iota
	// AwaitingTopic means the next message is treated as a topic for
	// post generation.
	AwaitingTopic
)

// State is one user's conversation state. Category optionally narrows
// the template family used when generation falls back locally.
type State struct {
	Kind     Kind
	Category string
}

// Store is a mutex-guarded map of user ID to conversation state.
type Store struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{states: make(map[int64]State)}
}

// Set replaces the user's state.
func (s *Store) Set(userID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

// Get returns the user's state, defaulting to Idle.
func (s *Store) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID]
}

// Consume returns the user's state and resets it to Idle in one step,
// so a topic prompt is honored exactly once.
func (s *Store) Consume(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.states[userID]
	delete(s.states, userID)
	return state
}

// Clear resets the user's state to Idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}
