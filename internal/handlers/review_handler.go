package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"lingoloop/internal/models"
	"lingoloop/internal/service"
)

// ReviewHandler handles the review item API
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type saveItemRequest struct {
	Kind       string `json:"kind"`
	Front      string `json:"front"`
	Back       string `json:"back"`
	Mode       string `json:"mode"`
	PayloadKey string `json:"payload_key"`
}

// SaveItem starts tracking an item for review. Saving the same payload twice
// returns the existing item with 200 instead of 201.
func (h *ReviewHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
		return
	}

	var req saveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	item, created, err := h.reviewService.SaveForReview(
		user.ID,
		models.ItemKind(req.Kind),
		req.Front,
		req.Back,
		models.ReviewMode(req.Mode),
		req.PayloadKey,
		time.Now().UTC(),
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidItem) {
			respondWithError(w, http.StatusBadRequest, "Invalid item: front, kind and mode are required", "", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to save item", "Error saving review item", err)
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, toReviewItemView(*item))
}

type dueResponse struct {
	Items []reviewItemView `json:"items"`
	Count int              `json:"count"`
}

// GetDue returns the caller's due items, most overdue first
func (h *ReviewHandler) GetDue(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
		return
	}

	items, err := h.reviewService.GetDue(user.ID, time.Now().UTC())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load due items", "Error loading due items", err)
		return
	}

	views := toReviewItemViews(items)
	respondWithJSON(w, http.StatusOK, dueResponse{Items: views, Count: len(views)})
}

type gradeRequest struct {
	Grade string `json:"grade"`
}

// SubmitGrade records a graded review for the item in the URL path
func (h *ReviewHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
		return
	}

	itemID := r.PathValue("id")
	if itemID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing item id", "", nil)
		return
	}

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	item, err := h.reviewService.SubmitGrade(user.ID, itemID, req.Grade, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			respondWithError(w, http.StatusNotFound, "Review item not found", "", nil)
		case errors.Is(err, service.ErrInvalidGrade):
			respondWithError(w, http.StatusBadRequest, "Invalid grade for this item", "", nil)
		case errors.Is(err, service.ErrConflict):
			respondWithError(w, http.StatusConflict, "Item was modified concurrently, retry", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to record review", "Error recording review", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, toReviewItemView(*item))
}
