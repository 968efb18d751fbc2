package core

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStats(t *testing.T) *StatsService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStatsService(client)
}

func TestStatsOverview(t *testing.T) {
	stats := newTestStats(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := stats.RecordPostView(ctx, 1); err != nil {
			t.Fatalf("RecordPostView error: %v", err)
		}
	}
	if err := stats.RecordPostView(ctx, 2); err != nil {
		t.Fatalf("RecordPostView error: %v", err)
	}
	if err := stats.RecordSignup(ctx); err != nil {
		t.Fatalf("RecordSignup error: %v", err)
	}
	if err := stats.RecordLogin(ctx); err != nil {
		t.Fatalf("RecordLogin error: %v", err)
	}
	if err := stats.RecordLogin(ctx); err != nil {
		t.Fatalf("RecordLogin error: %v", err)
	}

	overview, err := stats.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview error: %v", err)
	}
	if overview.Signups != 1 || overview.Logins != 2 {
		t.Fatalf("overview counters = %+v", overview)
	}
	if len(overview.TopPosts) != 2 {
		t.Fatalf("top posts = %+v, want 2 entries", overview.TopPosts)
	}
	if overview.TopPosts[0].PostID != 1 || overview.TopPosts[0].Views != 3 {
		t.Fatalf("top post = %+v, want post 1 with 3 views", overview.TopPosts[0])
	}
	if overview.TopPosts[1].PostID != 2 || overview.TopPosts[1].Views != 1 {
		t.Fatalf("second post = %+v, want post 2 with 1 view", overview.TopPosts[1])
	}
}

func TestStatsOverviewEmpty(t *testing.T) {
	stats := newTestStats(t)

	overview, err := stats.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview error: %v", err)
	}
	if overview.Signups != 0 || overview.Logins != 0 || len(overview.TopPosts) != 0 {
		t.Fatalf("overview = %+v, want all zero", overview)
	}
}
