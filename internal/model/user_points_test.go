package model

import "testing"

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int64
		want   int
	}{
		{0, 1},
		{10, 1},
		{99, 1},
		{100, 2},
		{105, 2},
		{250, 3},
		{-5, 1},
	}
	for _, tt := range tests {
		if got := LevelForPoints(tt.points); got != tt.want {
			t.Fatalf("LevelForPoints(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}
