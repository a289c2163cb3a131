package service

import (
	"errors"
	"testing"
	"time"

	"lingoloop/internal/models"
	"lingoloop/internal/security"
)

type fakeUserStore struct {
	users  map[int64]models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]models.User), nextID: 1}
}

func (f *fakeUserStore) CreateUser(email, passwordHash, name string) (*models.User, error) {
	user := models.User{
		ID:               f.nextID,
		Email:            email,
		PasswordHash:     passwordHash,
		Name:             name,
		RemindersEnabled: true,
		CreatedAt:        time.Now().UTC(),
	}
	f.users[user.ID] = user
	f.nextID++
	return &user, nil
}

func (f *fakeUserStore) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByID(id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := u
	return &copied, nil
}

func (f *fakeUserStore) SetRemindersEnabled(id int64, enabled bool) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.RemindersEnabled = enabled
	f.users[id] = u
	return nil
}

func newTestAuthService(store UserStore) *AuthService {
	return NewAuthService(store, security.NewTokenIssuer("test-secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	user, token, err := svc.Register("Ana@Example.com", "correct horse battery", "Ana")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if token == "" {
		t.Error("Register() returned empty token")
	}

	// The issued token resolves back to the same account.
	resolved, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("token resolved to user %d, want %d", resolved.ID, user.ID)
	}

	_, _, err = svc.Login("ana@example.com", "correct horse battery")
	if err != nil {
		t.Errorf("Login() error = %v", err)
	}
}

func TestRegisterRejections(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	if _, _, err := svc.Register("not-an-email", "long enough pass", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("bad email: error = %v, want ErrInvalidEmail", err)
	}
	if _, _, err := svc.Register("ok@example.com", "short", ""); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: error = %v, want ErrWeakPassword", err)
	}

	if _, _, err := svc.Register("dup@example.com", "long enough pass", ""); err != nil {
		t.Fatalf("first register error = %v", err)
	}
	if _, _, err := svc.Register("dup@example.com", "long enough pass", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejections(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	if _, _, err := svc.Register("bo@example.com", "long enough pass", "Bo"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, _, err := svc.Login("bo@example.com", "wrong password!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "long enough pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSetReminders(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	user, _, err := svc.Register("cy@example.com", "long enough pass", "Cy")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.SetReminders(user.ID, false); err != nil {
		t.Fatalf("SetReminders() error = %v", err)
	}
	if store.users[user.ID].RemindersEnabled {
		t.Error("reminders still enabled after disabling")
	}
}
