package repo_test

import (
	"context"
	"testing"

	"birdspot/internal/services/quota/domain"
	"birdspot/internal/services/quota/repo"
)

// exerciseLedger runs the behavior every ledger backend shares
func exerciseLedger(t *testing.T, l domain.Ledger) {
	t.Helper()
	ctx := context.Background()
	const day = "2026-05-01"

	if n, err := l.Count(ctx, "alice", day); err != nil || n != 0 {
		t.Fatalf("fresh count = %d %v", n, err)
	}
	for want := 1; want <= 2; want++ {
		if n, err := l.Increment(ctx, "alice", day); err != nil || n != want {
			t.Fatalf("increment = %d %v, want %d", n, err, want)
		}
	}
	if n, ok, err := l.IncrementIfBelow(ctx, "alice", day, 3); err != nil || !ok || n != 3 {
		t.Fatalf("below limit = %d %v %v", n, ok, err)
	}
	if n, ok, err := l.IncrementIfBelow(ctx, "alice", day, 3); err != nil || ok || n != 3 {
		t.Fatalf("at limit = %d %v %v", n, ok, err)
	}
	if n, ok, err := l.IncrementIfBelow(ctx, "bob", day, 0); err != nil || ok || n != 0 {
		t.Fatalf("zero limit = %d %v %v", n, ok, err)
	}
	if n, _ := l.Count(ctx, "alice", "2026-05-02"); n != 0 {
		t.Fatalf("days leak: %d", n)
	}
	if err := l.Reset(ctx, "alice", day); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n, _ := l.Count(ctx, "alice", day); n != 0 {
		t.Fatalf("count after reset = %d", n)
	}
	if err := l.Reset(ctx, "nobody", day); err != nil {
		t.Fatalf("reset missing: %v", err)
	}
}

func TestMemoryLedger(t *testing.T) {
	exerciseLedger(t, repo.NewMemory())
}
