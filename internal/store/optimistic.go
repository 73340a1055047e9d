package store

import "sync"

// Journal is the single optimistic-command boundary used for every
// mutation: the caller snapshots the prior state, applies the local
// change, issues the async service call, and either commits (drops the
// snapshot) or rolls back (restores it) when the call resolves.
//
// T is whatever state the caller wants restored on failure, typically
// the record page ([]Record).
type Journal[T any] struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]T
}

// NewJournal returns an empty journal.
func NewJournal[T any]() *Journal[T] {
	return &Journal[T]{pending: make(map[uint64]T)}
}

// Begin records a pre-mutation snapshot and returns a token identifying
// the in-flight mutation.
func (j *Journal[T]) Begin(snapshot T) uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.nextID++
	j.pending[j.nextID] = snapshot
	return j.nextID
}

// Commit discards the snapshot for a confirmed mutation.
func (j *Journal[T]) Commit(token uint64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.pending, token)
}

// Rollback returns the snapshot for a failed mutation and removes it.
// The second return is false when the token is unknown (already
// committed or rolled back).
func (j *Journal[T]) Rollback(token uint64) (T, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	snapshot, ok := j.pending[token]
	if ok {
		delete(j.pending, token)
	}
	return snapshot, ok
}

// Pending reports how many mutations are still awaiting resolution.
func (j *Journal[T]) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}
