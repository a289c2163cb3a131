package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lingoloop/internal/models"
	"lingoloop/internal/repository"
	"lingoloop/internal/scheduler"
	"lingoloop/internal/security"
	"lingoloop/internal/service"
)

// memReviewStore is an in-memory review item store for handler tests
type memReviewStore struct {
	items map[string]models.ReviewItem
}

func newMemReviewStore() *memReviewStore {
	return &memReviewStore{items: make(map[string]models.ReviewItem)}
}

func (m *memReviewStore) Create(item *models.ReviewItem) error {
	for _, existing := range m.items {
		if existing.OwnerID == item.OwnerID && existing.PayloadKey == item.PayloadKey {
			return repository.ErrDuplicateItem
		}
	}
	m.items[item.ID] = *item
	return nil
}

func (m *memReviewStore) GetByOwner(ownerID int64) ([]models.ReviewItem, error) {
	var out []models.ReviewItem
	for _, item := range m.items {
		if item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memReviewStore) GetByID(ownerID int64, itemID string) (*models.ReviewItem, error) {
	item, ok := m.items[itemID]
	if !ok || item.OwnerID != ownerID {
		return nil, nil
	}
	copied := item
	return &copied, nil
}

func (m *memReviewStore) GetByPayloadKey(ownerID int64, payloadKey string) (*models.ReviewItem, error) {
	for _, item := range m.items {
		if item.OwnerID == ownerID && item.PayloadKey == payloadKey {
			copied := item
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memReviewStore) Replace(item *models.ReviewItem, expectedVersion int64) (bool, error) {
	current, ok := m.items[item.ID]
	if !ok || current.Version != expectedVersion {
		return false, nil
	}
	item.Version = expectedVersion + 1
	m.items[item.ID] = *item
	return true, nil
}

// memUserStore is an in-memory user store for handler tests
type memUserStore struct {
	users  map[int64]models.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]models.User), nextID: 1}
}

func (m *memUserStore) CreateUser(email, passwordHash, name string) (*models.User, error) {
	user := models.User{ID: m.nextID, Email: email, PasswordHash: passwordHash, Name: name, RemindersEnabled: true}
	m.users[user.ID] = user
	m.nextID++
	return &user, nil
}

func (m *memUserStore) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) GetUserByID(id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := u
	return &copied, nil
}

func (m *memUserStore) SetRemindersEnabled(id int64, enabled bool) error {
	u := m.users[id]
	u.RemindersEnabled = enabled
	m.users[id] = u
	return nil
}

// newTestServer wires handlers and middleware onto a mux the way main does
func newTestServer(t *testing.T) (*http.ServeMux, string) {
	t.Helper()

	authService := service.NewAuthService(newMemUserStore(), security.NewTokenIssuer("test-secret", time.Hour))
	reviewService := service.NewReviewService(newMemReviewStore(), scheduler.DefaultParams())

	mw := NewMiddleware(authService, security.NewRateLimiter(100, time.Minute))
	authHandler := NewAuthHandler(authService)
	reviewHandler := NewReviewHandler(reviewService)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", authHandler.Register)
	mux.HandleFunc("POST /api/login", mw.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/review/items", mw.RequireAuth(reviewHandler.SaveItem))
	mux.HandleFunc("GET /api/review/due", mw.RequireAuth(reviewHandler.GetDue))
	mux.HandleFunc("POST /api/review/items/{id}/grade", mw.RequireAuth(reviewHandler.SubmitGrade))

	// Register an account and hand back its token for authenticated calls.
	body := `{"email":"test@example.com","password":"long enough pass","name":"Test"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/register", bytes.NewBufferString(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &auth); err != nil {
		t.Fatalf("decoding register response: %v", err)
	}

	return mux, auth.Token
}

func doJSON(mux *http.ServeMux, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.RemoteAddr = "192.0.2.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSaveItemEndpoint(t *testing.T) {
	mux, token := newTestServer(t)

	body := `{"kind":"sentence","front":"el gato duerme","back":"the cat sleeps","mode":"geometric"}`
	rec := doJSON(mux, "POST", "/api/review/items", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first save: status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var first reviewItemView
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if first.ID == "" || first.Mode != "geometric" {
		t.Errorf("unexpected item payload: %+v", first)
	}

	// Idempotent resave reports 200 with the same item.
	rec = doJSON(mux, "POST", "/api/review/items", token, body)
	if rec.Code != http.StatusOK {
		t.Errorf("second save: status = %d, want 200", rec.Code)
	}
	var second reviewItemView
	json.Unmarshal(rec.Body.Bytes(), &second)
	if second.ID != first.ID {
		t.Errorf("second save returned item %s, want %s", second.ID, first.ID)
	}
}

func TestSaveItemValidation(t *testing.T) {
	mux, token := newTestServer(t)

	rec := doJSON(mux, "POST", "/api/review/items", token, `{"kind":"sentence","front":"","mode":"geometric"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty front: status = %d, want 400", rec.Code)
	}

	rec = doJSON(mux, "POST", "/api/review/items", token, `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: status = %d, want 400", rec.Code)
	}
}

func TestDueAndGradeEndpoints(t *testing.T) {
	mux, token := newTestServer(t)

	rec := doJSON(mux, "POST", "/api/review/items", token,
		`{"kind":"flashcard","front":"gracias","back":"thanks","mode":"memory_model"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: status = %d", rec.Code)
	}
	var item reviewItemView
	json.Unmarshal(rec.Body.Bytes(), &item)

	// Fresh item is immediately due.
	rec = doJSON(mux, "GET", "/api/review/due", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("due: status = %d", rec.Code)
	}
	var due dueResponse
	json.Unmarshal(rec.Body.Bytes(), &due)
	if due.Count != 1 || due.Items[0].ID != item.ID {
		t.Errorf("due = %+v, want the saved item", due)
	}

	// Grade it; it leaves the due set.
	rec = doJSON(mux, "POST", fmt.Sprintf("/api/review/items/%s/grade", item.ID), token, `{"grade":"good"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("grade: status = %d: %s", rec.Code, rec.Body.String())
	}
	var graded reviewItemView
	json.Unmarshal(rec.Body.Bytes(), &graded)
	if graded.Memory == nil || graded.Memory.Reps != 1 {
		t.Errorf("graded item memory = %+v, want reps 1", graded.Memory)
	}

	rec = doJSON(mux, "GET", "/api/review/due", token, "")
	json.Unmarshal(rec.Body.Bytes(), &due)
	if due.Count != 0 {
		t.Errorf("due count after grading = %d, want 0", due.Count)
	}
}

func TestGradeEndpointErrors(t *testing.T) {
	mux, token := newTestServer(t)

	rec := doJSON(mux, "POST", "/api/review/items", token,
		`{"kind":"sentence","front":"hola","mode":"geometric"}`)
	var item reviewItemView
	json.Unmarshal(rec.Body.Bytes(), &item)

	t.Run("unknown item is 404", func(t *testing.T) {
		rec := doJSON(mux, "POST", "/api/review/items/no-such-id/grade", token, `{"grade":"correct"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("wrong grade vocabulary is 400", func(t *testing.T) {
		rec := doJSON(mux, "POST", fmt.Sprintf("/api/review/items/%s/grade", item.ID), token, `{"grade":"easy"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAuthRequired(t *testing.T) {
	mux, _ := newTestServer(t)

	paths := []struct {
		method, path string
	}{
		{"POST", "/api/review/items"},
		{"GET", "/api/review/due"},
		{"POST", "/api/review/items/some-id/grade"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := doJSON(mux, p.method, p.path, "", `{}`)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}

			rec = doJSON(mux, p.method, p.path, "garbage-token", `{}`)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("bad token: status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	mux, _ := newTestServer(t)

	rec := doJSON(mux, "POST", "/api/login", "", `{"email":"test@example.com","password":"long enough pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(mux, "POST", "/api/login", "", `{"email":"test@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", rec.Code)
	}
}
