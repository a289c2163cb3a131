package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"lingoloop/internal/models"
)

func TestDue(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []models.ReviewItem{
		{ID: "a", NextReview: t1.Add(-5 * time.Minute)},
		{ID: "b", NextReview: t1.Add(5 * time.Minute)},
		{ID: "c", NextReview: t1.Add(-time.Hour)},
	}

	due := Due(items, t1)

	if len(due) != 2 {
		t.Fatalf("got %d due items, want 2", len(due))
	}
	// Most overdue first
	if due[0].ID != "c" || due[1].ID != "a" {
		t.Errorf("order = [%s, %s], want [c, a]", due[0].ID, due[1].ID)
	}
}

func TestDueBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []models.ReviewItem{
		{ID: "exact", NextReview: now},
		{ID: "future", NextReview: now.Add(time.Nanosecond)},
	}

	due := Due(items, now)
	if len(due) != 1 || due[0].ID != "exact" {
		t.Errorf("an item due exactly now must qualify, a future item must not: %v", due)
	}
}

func TestDueAnyPermutation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []models.ReviewItem{
		{ID: "a", NextReview: now.Add(-4 * time.Hour)},
		{ID: "b", NextReview: now.Add(-3 * time.Hour)},
		{ID: "c", NextReview: now.Add(-2 * time.Hour)},
		{ID: "d", NextReview: now.Add(-1 * time.Hour)},
		{ID: "e", NextReview: now.Add(time.Hour)},
	}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]models.ReviewItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		due := Due(shuffled, now)
		if len(due) != 4 {
			t.Fatalf("trial %d: got %d due items, want 4", trial, len(due))
		}
		for i, want := range []string{"a", "b", "c", "d"} {
			if due[i].ID != want {
				t.Fatalf("trial %d: position %d = %s, want %s", trial, i, due[i].ID, want)
			}
		}
	}
}

func TestDueStableForEqualDates(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	when := now.Add(-time.Hour)

	items := []models.ReviewItem{
		{ID: "first", NextReview: when},
		{ID: "second", NextReview: when},
		{ID: "third", NextReview: when},
	}

	due := Due(items, now)
	for i, want := range []string{"first", "second", "third"} {
		if due[i].ID != want {
			t.Errorf("position %d = %s, want %s (input order must be kept for ties)", i, due[i].ID, want)
		}
	}
}

func TestDueEmpty(t *testing.T) {
	now := time.Now()
	if due := Due(nil, now); len(due) != 0 {
		t.Errorf("Due(nil) = %v, want empty", due)
	}
	if due := Due([]models.ReviewItem{{NextReview: now.Add(time.Hour)}}, now); len(due) != 0 {
		t.Errorf("nothing should be due, got %v", due)
	}
}
