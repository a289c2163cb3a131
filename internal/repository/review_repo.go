package repository

import (
	"database/sql"
	"errors"
	"time"

	"lingoloop/internal/database"
	"lingoloop/internal/models"
)

// ErrDuplicateItem is returned by Create when the owner already tracks an
// item with the same payload key.
var ErrDuplicateItem = errors.New("review item already exists for this payload")

// ReviewRepository handles review item database operations
type ReviewRepository struct {
	db *database.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewItemColumns = `
	id, owner_id, payload_key, kind, front, back, mode,
	last_reviewed, next_review, review_interval,
	stability, difficulty, reps, lapses, last_grade,
	version, created_at, updated_at
`

// Create inserts a new review item. The unique (owner_id, payload_key)
// index backs idempotent save-for-review: a duplicate insert comes back as
// ErrDuplicateItem instead of a second tracked item.
func (r *ReviewRepository) Create(item *models.ReviewItem) error {
	query := `
		INSERT INTO review_items (
			id, owner_id, payload_key, kind, front, back, mode,
			last_reviewed, next_review, review_interval,
			stability, difficulty, reps, lapses, last_grade, version
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var stability, difficulty *float64
	var reps, lapses int
	var lastGrade *int
	if item.Memory != nil {
		stability = item.Memory.Stability
		difficulty = item.Memory.Difficulty
		reps = item.Memory.Reps
		lapses = item.Memory.Lapses
		lastGrade = item.Memory.LastGrade
	}

	_, err := r.db.Exec(query,
		item.ID, item.OwnerID, item.PayloadKey, string(item.Kind),
		item.Front, item.Back, string(item.Mode),
		item.LastReviewed, item.NextReview, item.Interval,
		stability, difficulty, reps, lapses, lastGrade, item.Version,
	)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return ErrDuplicateItem
		}
		return err
	}
	return nil
}

// GetByOwner retrieves the owner's full collection
func (r *ReviewRepository) GetByOwner(ownerID int64) ([]models.ReviewItem, error) {
	query := `
		SELECT ` + reviewItemColumns + `
		FROM review_items
		WHERE owner_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ReviewItem
	for rows.Next() {
		item, err := scanReviewItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// GetByID retrieves one item scoped to its owner. Returns nil when the item
// does not exist or belongs to a different owner.
func (r *ReviewRepository) GetByID(ownerID int64, itemID string) (*models.ReviewItem, error) {
	query := `
		SELECT ` + reviewItemColumns + `
		FROM review_items
		WHERE owner_id = ? AND id = ?
	`

	item, err := scanReviewItem(r.db.QueryRow(query, ownerID, itemID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetByPayloadKey retrieves an item by its dedup key, nil when absent
func (r *ReviewRepository) GetByPayloadKey(ownerID int64, payloadKey string) (*models.ReviewItem, error) {
	query := `
		SELECT ` + reviewItemColumns + `
		FROM review_items
		WHERE owner_id = ? AND payload_key = ?
	`

	item, err := scanReviewItem(r.db.QueryRow(query, ownerID, payloadKey))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Replace persists a new item state with an atomic conditional update: the
// write only lands if the stored version still matches expectedVersion.
// Returns false when a concurrent writer got there first, so the caller can
// re-read and retry. This is what serializes grading per item without any
// cross-item locking.
func (r *ReviewRepository) Replace(item *models.ReviewItem, expectedVersion int64) (bool, error) {
	query := `
		UPDATE review_items
		SET last_reviewed = ?, next_review = ?, review_interval = ?,
		    stability = ?, difficulty = ?, reps = ?, lapses = ?, last_grade = ?,
		    version = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND version = ?
	`

	var stability, difficulty *float64
	var reps, lapses int
	var lastGrade *int
	if item.Memory != nil {
		stability = item.Memory.Stability
		difficulty = item.Memory.Difficulty
		reps = item.Memory.Reps
		lapses = item.Memory.Lapses
		lastGrade = item.Memory.LastGrade
	}

	result, err := r.db.Exec(query,
		item.LastReviewed, item.NextReview, item.Interval,
		stability, difficulty, reps, lapses, lastGrade,
		expectedVersion+1, time.Now().UTC(),
		item.ID, item.OwnerID, expectedVersion,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	item.Version = expectedVersion + 1
	return true, nil
}

// DueDigest is one user's pending review count, used for reminder emails
type DueDigest struct {
	UserID   int64
	Email    string
	Name     string
	DueCount int
}

// GetDueDigests returns, for every user with reminders enabled, how many of
// their items are due at the given instant. Users with nothing due are
// omitted.
func (r *ReviewRepository) GetDueDigests(now time.Time) ([]DueDigest, error) {
	query := `
		SELECT u.id, u.email, u.name, COUNT(ri.id) AS due_count
		FROM users u
		JOIN review_items ri ON ri.owner_id = u.id
		WHERE u.reminders_enabled = ? AND ri.next_review <= ?
		GROUP BY u.id, u.email, u.name
		HAVING COUNT(ri.id) > 0
	`

	rows, err := r.db.Query(query, true, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var digests []DueDigest
	for rows.Next() {
		var d DueDigest
		if err := rows.Scan(&d.UserID, &d.Email, &d.Name, &d.DueCount); err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}

	return digests, rows.Err()
}

// rowScanner lets scanReviewItem work for both QueryRow and Query results
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReviewItem(row rowScanner) (*models.ReviewItem, error) {
	var item models.ReviewItem
	var kind, mode string
	var lastReviewed sql.NullTime
	var stability, difficulty sql.NullFloat64
	var reps, lapses int
	var lastGrade sql.NullInt64

	err := row.Scan(
		&item.ID, &item.OwnerID, &item.PayloadKey, &kind,
		&item.Front, &item.Back, &mode,
		&lastReviewed, &item.NextReview, &item.Interval,
		&stability, &difficulty, &reps, &lapses, &lastGrade,
		&item.Version, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Kind = models.ItemKind(kind)
	item.Mode = models.ReviewMode(mode)
	if lastReviewed.Valid {
		item.LastReviewed = &lastReviewed.Time
	}

	if item.Mode == models.ModeMemoryModel {
		ms := &models.MemoryState{Reps: reps, Lapses: lapses}
		if stability.Valid {
			ms.Stability = &stability.Float64
		}
		if difficulty.Valid {
			ms.Difficulty = &difficulty.Float64
		}
		if lastGrade.Valid {
			grade := int(lastGrade.Int64)
			ms.LastGrade = &grade
		}
		item.Memory = ms
	}

	return &item, nil
}
