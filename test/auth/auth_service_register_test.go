package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/vlasovdm/taskdeck/backend/internal/auth/service"
	commonerrors "github.com/vlasovdm/taskdeck/backend/internal/common/errors"
	userdomain "github.com/vlasovdm/taskdeck/backend/internal/user/domain"
)

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, _, idGenerator, _ := setupAuthService(t)

	idGenerator.newIDFunc = func() (string, error) {
		return "user-id-1", nil
	}

	var created userdomain.User
	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		created = user
		return nil
	}

	public, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "password1",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if public.ID != "user-id-1" {
		t.Errorf("expected id user-id-1, got %s", public.ID)
	}
	if public.Username != "alice" {
		t.Errorf("expected username alice, got %s", public.Username)
	}
	if created.PasswordHash != "hashed_password1" {
		t.Errorf("expected stored hash, got %s", created.PasswordHash)
	}
	if created.PasswordHash == "password1" {
		t.Error("password must not be stored in plaintext")
	}
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		return commonerrors.ErrUsernameAlreadyExists
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "password1",
	})

	if !errors.Is(err, service.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_ValidationError(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repoCalled := false
	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		repoCalled = true
		return nil
	}

	cases := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"short username", "ab", "password1", service.ErrValidationUsernameLength},
		{"bad username chars", "al!ce", "password1", service.ErrValidationUsernameChars},
		{"short password", "alice", "pw12", service.ErrValidationPasswordLength},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), service.RegisterInput{
				Username: tc.username,
				Password: tc.password,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if repoCalled {
		t.Error("repository must not be called for invalid input")
	}
}

func TestAuthService_Register_HashError(t *testing.T) {
	svc, _, hasher, _, _ := setupAuthService(t)

	hasher.hashFunc = func(password string) (string, error) {
		return "", errors.New("bcrypt failure")
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "password1",
	})

	if err == nil {
		t.Fatal("expected error")
	}
}

func TestAuthService_Register_RepoError(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		return errors.New("db down")
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "password1",
	})

	if !errors.Is(err, commonerrors.ErrInternalError) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
