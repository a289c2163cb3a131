package scheduler

import (
	"math"
	"time"

	"lingoloop/internal/models"
)

// Memory is the four-grade memory-model policy. It tracks a stability and
// difficulty estimate per item and schedules the next review at the point
// where predicted retrievability falls to the target retention.
//
// The formulas are the published FSRS v4 set; all constants live in Params.
type Memory struct {
	p Params
}

// NewMemory creates the memory-model policy from tuning parameters
func NewMemory(p Params) Memory {
	return Memory{p: p}
}

// Apply returns the item state after grading at the given instant.
// It is pure: the input item and its memory payload are not modified.
func (m Memory) Apply(item models.ReviewItem, rating Rating, now time.Time) models.ReviewItem {
	var ms models.MemoryState
	if item.Memory != nil {
		ms = *item.Memory
	}

	var stability, difficulty float64
	if ms.Stability == nil || ms.Difficulty == nil {
		// First graded review: seed from the grade, there is no prior
		// state to decay from.
		stability = m.initialStability(rating)
		difficulty = m.initialDifficulty(rating)
	} else {
		elapsed := elapsedDays(item.LastReviewed, now)
		retr := m.Retrievability(*ms.Stability, elapsed)
		difficulty = m.nextDifficulty(*ms.Difficulty, rating)
		if rating == RatingAgain {
			stability = m.forgetStability(*ms.Difficulty, *ms.Stability, retr)
		} else {
			stability = m.recallStability(*ms.Difficulty, *ms.Stability, retr, rating)
		}
	}

	if rating == RatingAgain {
		ms.Lapses++
	} else {
		ms.Reps++
	}
	grade := int(rating)
	ms.LastGrade = &grade
	ms.Stability = &stability
	ms.Difficulty = &difficulty

	days := m.intervalDays(stability)
	reviewed := now
	item.LastReviewed = &reviewed
	item.Interval = days
	item.NextReview = now.Add(time.Duration(days * 24 * float64(time.Hour)))
	item.Memory = &ms
	return item
}

// Retrievability predicts the recall probability after elapsed days at the
// given stability. Monotonically decreasing in elapsed time, increasing in
// stability.
func (m Memory) Retrievability(stability, elapsedDays float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+m.p.Factor*elapsedDays/stability, m.p.Decay)
}

// initialStability seeds stability for a first review from w0-w3
func (m Memory) initialStability(rating Rating) float64 {
	return math.Max(m.p.Weights[rating-1], 0.1)
}

// initialDifficulty seeds difficulty for a first review
func (m Memory) initialDifficulty(rating Rating) float64 {
	return clampDifficulty(m.p.Weights[4] - m.p.Weights[5]*float64(rating-3))
}

// nextDifficulty shifts difficulty by the grade and reverts it toward the
// default-grade baseline so repeated extremes do not pin it at a bound.
func (m Memory) nextDifficulty(difficulty float64, rating Rating) float64 {
	shifted := difficulty - m.p.Weights[6]*float64(rating-3)
	reverted := m.p.Weights[7]*m.p.Weights[4] + (1-m.p.Weights[7])*shifted
	return clampDifficulty(reverted)
}

// recallStability grows stability after a remembered review. Growth is
// larger for easier grades and diminishes as stability is already high.
func (m Memory) recallStability(difficulty, stability, retrievability float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == RatingHard {
		hardPenalty = m.p.Weights[15]
	}
	easyBonus := 1.0
	if rating == RatingEasy {
		easyBonus = m.p.Weights[16]
	}

	growth := math.Exp(m.p.Weights[8]) *
		(11 - difficulty) *
		math.Pow(stability, -m.p.Weights[9]) *
		(math.Exp((1-retrievability)*m.p.Weights[10]) - 1) *
		hardPenalty * easyBonus

	return stability * (1 + growth)
}

// forgetStability shrinks stability after a lapse. Harder items and reviews
// at low retrievability lose more; the result never exceeds the pre-lapse
// stability.
func (m Memory) forgetStability(difficulty, stability, retrievability float64) float64 {
	next := m.p.Weights[11] *
		math.Pow(difficulty, -m.p.Weights[12]) *
		(math.Pow(stability+1, m.p.Weights[13]) - 1) *
		math.Exp((1-retrievability)*m.p.Weights[14])

	return math.Max(math.Min(next, stability), 0.1)
}

// intervalDays solves the forgetting curve for the elapsed time at which
// retrievability reaches the target retention, in whole days.
func (m Memory) intervalDays(stability float64) float64 {
	raw := stability / m.p.Factor * (math.Pow(m.p.TargetRetention, 1/m.p.Decay) - 1)
	days := math.Round(raw)
	if days < 1 {
		days = 1
	}
	if m.p.MaxIntervalDays > 0 && days > m.p.MaxIntervalDays {
		days = m.p.MaxIntervalDays
	}
	return days
}

func clampDifficulty(d float64) float64 {
	return math.Max(math.Min(d, 10), 1)
}

func elapsedDays(lastReviewed *time.Time, now time.Time) float64 {
	if lastReviewed == nil {
		return 0
	}
	days := now.Sub(*lastReviewed).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}
