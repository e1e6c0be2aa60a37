package state

import (
	"sync"

	"github.com/rook-computer/boardview/internal/board"
)

// State is the latest board received from upstream.
type State struct {
	Board   board.Matrix
	Version uint64 // 0 until the first board arrives
	Source  string // "rows", "fen", ...
}

// Ready reports whether a board has been received.
func (s State) Ready() bool { return s.Version > 0 }

// Store holds the latest State. Boards are copied on the way in and out so
// callers never share a matrix with the producer.
type Store struct {
	mu      sync.RWMutex
	state   State
	updates chan struct{}
}

func NewStore() *Store {
	return &Store{updates: make(chan struct{}, 1)}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	snap := store.state
	snap.Board = snap.Board.Clone()
	return snap
}

// SetBoard replaces the current board and signals Updates.
func (store *Store) SetBoard(m board.Matrix, source string) {
	store.mu.Lock()
	store.state.Board = m.Clone()
	store.state.Source = source
	store.state.Version++
	store.mu.Unlock()
	store.notify()
}

// Reset forgets the current board.
func (store *Store) Reset() {
	store.mu.Lock()
	store.state = State{}
	store.mu.Unlock()
	store.notify()
}

// Updates delivers a signal after every change. Signals coalesce: a reader
// that falls behind sees one pending signal, not one per change.
func (store *Store) Updates() <-chan struct{} { return store.updates }

func (store *Store) notify() {
	select {
	case store.updates <- struct{}{}:
	default:
	}
}
