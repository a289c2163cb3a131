package models

import "time"

// ReviewMode selects which scheduling policy governs an item.
// The mode is fixed at creation and never changes.
type ReviewMode string

const (
	// ModeGeometric doubles the interval on success and resets it on failure
	ModeGeometric ReviewMode = "geometric"
	// ModeMemoryModel schedules from per-item stability and difficulty estimates
	ModeMemoryModel ReviewMode = "memory_model"
)

// Valid reports whether the mode is one of the known policies
func (m ReviewMode) Valid() bool {
	return m == ModeGeometric || m == ModeMemoryModel
}

// ItemKind describes what kind of content an item carries.
// The scheduler never looks at it.
type ItemKind string

const (
	KindSentence  ItemKind = "sentence"
	KindFlashcard ItemKind = "flashcard"
)

// Valid reports whether the kind is known
func (k ItemKind) Valid() bool {
	return k == KindSentence || k == KindFlashcard
}

// MemoryState holds the memory-model scheduling estimates for an item.
// Stability and Difficulty are nil until the first graded review.
type MemoryState struct {
	Stability  *float64 // estimated days until retrievability decays to the target
	Difficulty *float64 // intrinsic hardness, clamped to [1, 10]
	Reps       int      // reviews graded remembered (grade >= 2)
	Lapses     int      // reviews graded forgotten (grade = 1)
	LastGrade  *int     // most recent grade, kept for diagnostics
}

// ReviewItem is the unit of spaced repetition: a common envelope plus
// a mode-specific payload (Memory is non-nil only for memory-model items).
type ReviewItem struct {
	ID         string
	OwnerID    int64
	PayloadKey string
	Kind       ItemKind
	Front      string
	Back       string
	Mode       ReviewMode

	LastReviewed *time.Time // nil until the first graded review
	NextReview   time.Time
	// Interval is the current spacing: minutes in geometric mode,
	// whole days in memory-model mode. Zero only before the first review.
	Interval float64

	Memory *MemoryState

	Version   int64 // bumped on every persisted update
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFresh reports whether the item has never been graded
func (it *ReviewItem) IsFresh() bool {
	return it.LastReviewed == nil
}

// IsDue reports whether the item is due at the given instant
func (it *ReviewItem) IsDue(now time.Time) bool {
	return !it.NextReview.After(now)
}

// IntervalDuration converts the mode-dependent interval into a duration
func (it *ReviewItem) IntervalDuration() time.Duration {
	switch it.Mode {
	case ModeMemoryModel:
		return time.Duration(it.Interval * 24 * float64(time.Hour))
	default:
		return time.Duration(it.Interval * float64(time.Minute))
	}
}
