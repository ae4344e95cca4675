package service

import (
	"MarketPulse/internal/api/dto"
	"context"
	"testing"
	"time"
)

type memLeaderboardCache struct {
	data map[string][]*dto.LeaderboardEntryDTO
	sets int
}

func (c *memLeaderboardCache) Get(_ context.Context, metric string) ([]*dto.LeaderboardEntryDTO, bool, error) {
	list, ok := c.data[metric]
	return list, ok, nil
}

func (c *memLeaderboardCache) Set(_ context.Context, metric string, list []*dto.LeaderboardEntryDTO) error {
	if c.data == nil {
		c.data = make(map[string][]*dto.LeaderboardEntryDTO)
	}
	c.data[metric] = list
	c.sets++
	return nil
}

func TestGetLeaderboard(t *testing.T) {
	h := newHarness(t)
	h.seedAccount(1, 120, 2, testStart)
	h.seedAccount(2, 300, 1, testStart)
	h.seedAccount(3, 50, 9, testStart)

	svc := NewLeaderboardService(h.pointsRepo, nil, 2)

	board, err := svc.GetLeaderboard(h.ctx, "points", 3)
	if err != nil {
		t.Fatalf("GetLeaderboard() error = %v", err)
	}
	if len(board.List) != 2 || board.List[0].UserID != 2 || board.List[1].UserID != 1 {
		t.Fatalf("points board = %+v", board.List)
	}
	if board.Me == nil || board.Me.Rank != 3 {
		t.Fatalf("Me = %+v, want rank 3", board.Me)
	}

	board, err = svc.GetLeaderboard(h.ctx, "streak", 3)
	if err != nil {
		t.Fatalf("GetLeaderboard() error = %v", err)
	}
	if board.List[0].UserID != 3 || board.Me.Rank != 1 {
		t.Fatalf("streak board = %+v me %+v", board.List, board.Me)
	}

	board, err = svc.GetLeaderboard(h.ctx, "level", 0)
	if err != nil {
		t.Fatalf("GetLeaderboard() error = %v", err)
	}
	if board.List[0].UserID != 2 || board.Me != nil {
		t.Fatalf("level board = %+v me %+v", board.List, board.Me)
	}

	if _, err = svc.GetLeaderboard(h.ctx, "karma", 0); err != ErrLeaderboardMetricInvalid {
		t.Fatalf("GetLeaderboard() error = %v, want ErrLeaderboardMetricInvalid", err)
	}
}

func TestLeaderboardCache(t *testing.T) {
	h := newHarness(t)
	h.seedAccount(1, 120, 2, testStart)
	cache := &memLeaderboardCache{}
	svc := NewLeaderboardService(h.pointsRepo, cache, 10)

	if _, err := svc.GetLeaderboard(h.ctx, "points", 0); err != nil {
		t.Fatalf("GetLeaderboard() error = %v", err)
	}
	h.seedAccount(2, 500, 1, testStart.Add(time.Minute))

	board, err := svc.GetLeaderboard(h.ctx, "points", 0)
	if err != nil {
		t.Fatalf("GetLeaderboard() error = %v", err)
	}
	if len(board.List) != 1 {
		t.Fatalf("cached board = %d entries, want stale cache of 1", len(board.List))
	}

	if err = svc.RefreshLeaderboards(h.ctx); err != nil {
		t.Fatalf("RefreshLeaderboards() error = %v", err)
	}
	board, err = svc.GetLeaderboard(h.ctx, "points", 0)
	if err != nil {
		t.Fatalf("GetLeaderboard() error = %v", err)
	}
	if len(board.List) != 2 || board.List[0].UserID != 2 {
		t.Fatalf("refreshed board = %+v", board.List)
	}
	if cache.sets != 1+len(LeaderboardMetrics) {
		t.Fatalf("cache sets = %d", cache.sets)
	}
}
