package scheduler

import (
	"sort"
	"time"

	"lingoloop/internal/models"
)

// Due returns the items whose next review date has passed at the reference
// instant, ordered ascending by next review date so the learner clears the
// oldest backlog first. The sort is stable with respect to input order for
// equal due dates. The input slice is not modified.
func Due(items []models.ReviewItem, now time.Time) []models.ReviewItem {
	var due []models.ReviewItem
	for _, item := range items {
		if item.IsDue(now) {
			due = append(due, item)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReview.Before(due[j].NextReview)
	})

	return due
}
