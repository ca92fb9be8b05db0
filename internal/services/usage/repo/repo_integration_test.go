//go:build integration_pg

package repo_test

import (
	"context"
	"testing"
	"time"

	"birdspot/internal/platform/store/storetest"
	"birdspot/internal/services/usage/domain"
	"birdspot/internal/services/usage/repo"

	"github.com/google/uuid"
)

func TestPGAppendAndRecent(t *testing.T) {
	s := storetest.OpenPG(t)
	r := repo.NewPG().Bind(s.PG)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := r.Append(ctx, domain.Entry{
			ID:          uuid.New(),
			Identity:    "alice",
			IP:          "192.0.2.1",
			Endpoint:    "/api/identify/sound",
			Fingerprint: "audio_x",
			Cached:      i == 2,
			Model:       "gpt-4o-mini",
			InputBytes:  int64(100 + i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	got, err := r.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].InputBytes != 102 || !got[0].Cached || got[1].InputBytes != 101 {
		t.Fatalf("recent = %+v", got)
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("created_at = %v", got[0].CreatedAt)
	}
}
