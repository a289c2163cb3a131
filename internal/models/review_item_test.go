package models

import (
	"testing"
	"time"
)

func TestReviewModeValid(t *testing.T) {
	tests := []struct {
		mode  ReviewMode
		valid bool
	}{
		{ModeGeometric, true},
		{ModeMemoryModel, true},
		{ReviewMode("sm2"), false},
		{ReviewMode(""), false},
	}

	for _, tt := range tests {
		if got := tt.mode.Valid(); got != tt.valid {
			t.Errorf("ReviewMode(%q).Valid() = %v, want %v", tt.mode, got, tt.valid)
		}
	}
}

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		nextReview time.Time
		want       bool
	}{
		{"overdue", now.Add(-time.Hour), true},
		{"due exactly now", now, true},
		{"not yet due", now.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := ReviewItem{NextReview: tt.nextReview}
			if got := item.IsDue(now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalDuration(t *testing.T) {
	geometric := ReviewItem{Mode: ModeGeometric, Interval: 30}
	if got := geometric.IntervalDuration(); got != 30*time.Minute {
		t.Errorf("geometric IntervalDuration() = %v, want 30m", got)
	}

	memory := ReviewItem{Mode: ModeMemoryModel, Interval: 3}
	if got := memory.IntervalDuration(); got != 72*time.Hour {
		t.Errorf("memory IntervalDuration() = %v, want 72h", got)
	}
}

func TestIsFresh(t *testing.T) {
	item := ReviewItem{}
	if !item.IsFresh() {
		t.Error("item without a review should be fresh")
	}

	reviewed := time.Now()
	item.LastReviewed = &reviewed
	if item.IsFresh() {
		t.Error("reviewed item should not be fresh")
	}
}
