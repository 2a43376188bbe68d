package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vlasovdm/taskdeck/backend/internal/auth/service"
)

func registerErr(t *testing.T, username, password string) error {
	t.Helper()
	svc, _, _, _, _ := setupAuthService(t)
	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: username,
		Password: password,
	})
	return err
}

func TestValidation_UsernameBounds(t *testing.T) {
	if err := registerErr(t, "ab", "password1"); !errors.Is(err, service.ErrValidationUsernameLength) {
		t.Errorf("2 chars: expected length error, got %v", err)
	}
	if err := registerErr(t, strings.Repeat("a", 33), "password1"); !errors.Is(err, service.ErrValidationUsernameLength) {
		t.Errorf("33 chars: expected length error, got %v", err)
	}
	if err := registerErr(t, "abc", "password1"); err != nil {
		t.Errorf("3 chars: expected success, got %v", err)
	}
	if err := registerErr(t, strings.Repeat("a", 32), "password1"); err != nil {
		t.Errorf("32 chars: expected success, got %v", err)
	}
}

func TestValidation_UsernameCharacters(t *testing.T) {
	valid := []string{"alice", "alice_1", "a-b-c", "User123"}
	for _, u := range valid {
		if err := registerErr(t, u, "password1"); err != nil {
			t.Errorf("%q: expected success, got %v", u, err)
		}
	}

	invalid := []string{"al ice", "al!ce", "элис", "_alice", "alice_", "-alice"}
	for _, u := range invalid {
		err := registerErr(t, u, "password1")
		if !errors.Is(err, service.ErrValidationUsernameChars) && !errors.Is(err, service.ErrValidationUsernameLength) {
			t.Errorf("%q: expected validation error, got %v", u, err)
		}
	}
}

func TestValidation_PasswordBounds(t *testing.T) {
	if err := registerErr(t, "alice", "pw12"); !errors.Is(err, service.ErrValidationPasswordLength) {
		t.Errorf("4 chars: expected length error, got %v", err)
	}
	if err := registerErr(t, "alice", strings.Repeat("a1", 40)); !errors.Is(err, service.ErrValidationPasswordLength) {
		t.Errorf("80 chars: expected length error, got %v", err)
	}
	if err := registerErr(t, "alice", "pw123"); err != nil {
		t.Errorf("5 chars: expected success, got %v", err)
	}
	if err := registerErr(t, "alice", strings.Repeat("a1", 36)); err != nil {
		t.Errorf("72 chars: expected success, got %v", err)
	}
}
