package store

import "testing"

func TestJournalCommitDropsSnapshot(t *testing.T) {
	j := NewJournal[[]Record]()
	token := j.Begin([]Record{{ID: "r1"}})
	if got := j.Pending(); got != 1 {
		t.Fatalf("pending = %d, want 1", got)
	}
	j.Commit(token)
	if got := j.Pending(); got != 0 {
		t.Fatalf("pending after commit = %d, want 0", got)
	}
	if _, ok := j.Rollback(token); ok {
		t.Fatal("rollback after commit should report unknown token")
	}
}

func TestJournalRollbackRestoresSnapshot(t *testing.T) {
	j := NewJournal[[]Record]()
	snapshot := []Record{{ID: "r1", Values: map[string]any{"name": "Acme"}}}
	token := j.Begin(snapshot)

	restored, ok := j.Rollback(token)
	if !ok {
		t.Fatal("rollback should find the snapshot")
	}
	if len(restored) != 1 || restored[0].ID != "r1" {
		t.Fatalf("unexpected snapshot restored: %+v", restored)
	}
	if got := j.Pending(); got != 0 {
		t.Fatalf("pending after rollback = %d, want 0", got)
	}
}

func TestJournalTracksConcurrentMutations(t *testing.T) {
	j := NewJournal[int]()
	t1 := j.Begin(1)
	t2 := j.Begin(2)
	if t1 == t2 {
		t.Fatal("tokens must be distinct")
	}
	if got := j.Pending(); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}

	// Resolving one in-flight mutation leaves the other untouched.
	j.Commit(t2)
	restored, ok := j.Rollback(t1)
	if !ok || restored != 1 {
		t.Fatalf("rollback(t1) = %d, %v", restored, ok)
	}
}
