package handlers

import (
	"time"

	"lingoloop/internal/models"
)

// reviewItemView is the JSON shape of a review item
type reviewItemView struct {
	ID           string           `json:"id"`
	PayloadKey   string           `json:"payload_key"`
	Kind         string           `json:"kind"`
	Front        string           `json:"front"`
	Back         string           `json:"back,omitempty"`
	Mode         string           `json:"mode"`
	LastReviewed *time.Time       `json:"last_reviewed,omitempty"`
	NextReview   time.Time        `json:"next_review"`
	Interval     float64          `json:"interval"`
	Memory       *memoryStateView `json:"memory,omitempty"`
}

type memoryStateView struct {
	Stability  *float64 `json:"stability,omitempty"`
	Difficulty *float64 `json:"difficulty,omitempty"`
	Reps       int      `json:"reps"`
	Lapses     int      `json:"lapses"`
}

func toReviewItemView(item models.ReviewItem) reviewItemView {
	view := reviewItemView{
		ID:           item.ID,
		PayloadKey:   item.PayloadKey,
		Kind:         string(item.Kind),
		Front:        item.Front,
		Back:         item.Back,
		Mode:         string(item.Mode),
		LastReviewed: item.LastReviewed,
		NextReview:   item.NextReview,
		Interval:     item.Interval,
	}
	if item.Memory != nil {
		view.Memory = &memoryStateView{
			Stability:  item.Memory.Stability,
			Difficulty: item.Memory.Difficulty,
			Reps:       item.Memory.Reps,
			Lapses:     item.Memory.Lapses,
		}
	}
	return view
}

func toReviewItemViews(items []models.ReviewItem) []reviewItemView {
	views := make([]reviewItemView, 0, len(items))
	for _, item := range items {
		views = append(views, toReviewItemView(item))
	}
	return views
}

// userView is the JSON shape of an account
type userView struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name,omitempty"`
	RemindersEnabled bool   `json:"reminders_enabled"`
}

func toUserView(user *models.User) userView {
	return userView{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		RemindersEnabled: user.RemindersEnabled,
	}
}
