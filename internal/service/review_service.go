package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lingoloop/internal/models"
	"lingoloop/internal/repository"
	"lingoloop/internal/scheduler"
)

var (
	// ErrItemNotFound covers both a missing item and an item owned by
	// someone else, so callers can't probe for other owners' items.
	ErrItemNotFound = errors.New("review item not found")
	ErrInvalidGrade = errors.New("invalid grade for this item's mode")
	ErrInvalidItem  = errors.New("invalid review item")
	// ErrConflict is returned when an item keeps being modified
	// concurrently and the bounded retry loop gives up.
	ErrConflict = errors.New("review item was modified concurrently")
)

// maxReplaceAttempts bounds the optimistic-concurrency retry loop in
// SubmitGrade.
const maxReplaceAttempts = 3

// ReviewItemStore is the persistence collaborator for review items.
// *repository.ReviewRepository satisfies it; tests substitute an in-memory
// implementation.
type ReviewItemStore interface {
	Create(item *models.ReviewItem) error
	GetByOwner(ownerID int64) ([]models.ReviewItem, error)
	GetByID(ownerID int64, itemID string) (*models.ReviewItem, error)
	GetByPayloadKey(ownerID int64, payloadKey string) (*models.ReviewItem, error)
	Replace(item *models.ReviewItem, expectedVersion int64) (bool, error)
}

// ReviewService orchestrates store reads and writes around the two
// scheduling policies. It is the only mutating entry point for review items.
type ReviewService struct {
	store     ReviewItemStore
	geometric scheduler.Geometric
	memory    scheduler.Memory
}

// NewReviewService creates a review service with the given tuning parameters
func NewReviewService(store ReviewItemStore, params scheduler.Params) *ReviewService {
	return &ReviewService{
		store:     store,
		geometric: scheduler.NewGeometric(params),
		memory:    scheduler.NewMemory(params),
	}
}

// SaveForReview starts tracking an item for the owner. It is idempotent: a
// second save with the same payload key returns the existing item and
// created=false instead of creating a duplicate.
func (s *ReviewService) SaveForReview(ownerID int64, kind models.ItemKind, front, back string, mode models.ReviewMode, payloadKey string, now time.Time) (*models.ReviewItem, bool, error) {
	front = strings.TrimSpace(front)
	if front == "" || !kind.Valid() || !mode.Valid() {
		return nil, false, ErrInvalidItem
	}
	if payloadKey == "" {
		payloadKey = string(kind) + ":" + strings.ToLower(front)
	}

	existing, err := s.store.GetByPayloadKey(ownerID, payloadKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing item: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	item := &models.ReviewItem{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		PayloadKey: payloadKey,
		Kind:       kind,
		Front:      front,
		Back:       strings.TrimSpace(back),
		Mode:       mode,
		NextReview: now, // fresh items are immediately due
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if mode == models.ModeMemoryModel {
		item.Memory = &models.MemoryState{}
	}

	if err := s.store.Create(item); err != nil {
		if errors.Is(err, repository.ErrDuplicateItem) {
			// Lost the check-then-insert race; the winner's row is
			// authoritative.
			existing, lookupErr := s.store.GetByPayloadKey(ownerID, payloadKey)
			if lookupErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create review item: %w", err)
	}

	return item, true, nil
}

// GetDue returns the owner's due items, most overdue first
func (s *ReviewService) GetDue(ownerID int64, now time.Time) ([]models.ReviewItem, error) {
	items, err := s.store.GetByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review items: %w", err)
	}
	return scheduler.Due(items, now), nil
}

// SubmitGrade records a graded review: it loads the item, validates the
// grade against the item's mode, applies the matching policy and persists
// the new state. The conditional Replace serializes concurrent grading of
// the same item; on a version conflict the whole read-modify-write is
// retried against the fresh state.
func (s *ReviewService) SubmitGrade(ownerID int64, itemID, grade string, now time.Time) (*models.ReviewItem, error) {
	for attempt := 0; attempt < maxReplaceAttempts; attempt++ {
		item, err := s.store.GetByID(ownerID, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to load review item: %w", err)
		}
		if item == nil {
			return nil, ErrItemNotFound
		}

		updated, err := s.applyGrade(*item, grade, now)
		if err != nil {
			return nil, err
		}

		applied, err := s.store.Replace(&updated, item.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to persist review: %w", err)
		}
		if applied {
			return &updated, nil
		}
	}

	return nil, ErrConflict
}

// applyGrade dispatches to the policy matching the item's mode. Adding a
// third policy means adding a case here, not touching the existing two.
func (s *ReviewService) applyGrade(item models.ReviewItem, grade string, now time.Time) (models.ReviewItem, error) {
	switch item.Mode {
	case models.ModeGeometric:
		correct, err := parseBinaryGrade(grade)
		if err != nil {
			return models.ReviewItem{}, err
		}
		return s.geometric.Apply(item, correct, now), nil

	case models.ModeMemoryModel:
		rating, err := parseRating(grade)
		if err != nil {
			return models.ReviewItem{}, err
		}
		return s.memory.Apply(item, rating, now), nil

	default:
		return models.ReviewItem{}, fmt.Errorf("unknown review mode %q", item.Mode)
	}
}

// parseBinaryGrade accepts the geometric mode's correct/incorrect outcomes
func parseBinaryGrade(grade string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case "correct":
		return true, nil
	case "incorrect":
		return false, nil
	default:
		return false, ErrInvalidGrade
	}
}

// parseRating accepts the memory model's 1-4 grades, by name or number
func parseRating(grade string) (scheduler.Rating, error) {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case "again", "1":
		return scheduler.RatingAgain, nil
	case "hard", "2":
		return scheduler.RatingHard, nil
	case "good", "3":
		return scheduler.RatingGood, nil
	case "easy", "4":
		return scheduler.RatingEasy, nil
	default:
		return 0, ErrInvalidGrade
	}
}
