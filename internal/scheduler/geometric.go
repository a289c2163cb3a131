package scheduler

import (
	"time"

	"lingoloop/internal/models"
)

// Geometric is the binary-graded doubling policy: a correct answer doubles
// the interval, an incorrect answer resets it to the base interval.
type Geometric struct {
	base time.Duration
	max  time.Duration
}

// NewGeometric creates the geometric policy from tuning parameters
func NewGeometric(p Params) Geometric {
	return Geometric{base: p.BaseInterval, max: p.MaxGeometricInterval}
}

// Apply returns the item state after grading at the given instant.
// It is pure: the input item is not modified and no clock is read.
func (g Geometric) Apply(item models.ReviewItem, correct bool, now time.Time) models.ReviewItem {
	minutes := item.Interval
	if item.IsFresh() || minutes <= 0 {
		// A never-graded item is seeded with the base interval before
		// the grade is applied.
		minutes = g.base.Minutes()
	}

	if correct {
		minutes *= 2
		if g.max > 0 && minutes > g.max.Minutes() {
			minutes = g.max.Minutes()
		}
	} else {
		minutes = g.base.Minutes()
	}

	reviewed := now
	item.LastReviewed = &reviewed
	item.Interval = minutes
	item.NextReview = now.Add(time.Duration(minutes * float64(time.Minute)))
	return item
}
