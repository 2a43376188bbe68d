package auth

import (
	"context"
	"errors"
	"testing"

	commonerrors "github.com/vlasovdm/taskdeck/backend/internal/common/errors"
	userdomain "github.com/vlasovdm/taskdeck/backend/internal/user/domain"
	userrepo "github.com/vlasovdm/taskdeck/backend/internal/user/repository"
)

func TestAuthService_Profile_Success(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.findByIDFunc = func(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
		if id != "user-id-1" {
			return userdomain.User{}, userrepo.ErrUserNotFound
		}
		return userdomain.User{
			ID:           "user-id-1",
			Username:     "alice",
			PasswordHash: "hashed_password1",
		}, nil
	}

	public, err := svc.Profile(context.Background(), "user-id-1")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if public.ID != "user-id-1" {
		t.Errorf("expected id user-id-1, got %s", public.ID)
	}
	if public.Username != "alice" {
		t.Errorf("expected username alice, got %s", public.Username)
	}
}

// A valid token whose subject was deleted must read as an invalid token,
// not as a server error.
func TestAuthService_Profile_UnknownUser(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.findByIDFunc = func(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}

	_, err := svc.Profile(context.Background(), "ghost")

	if !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Profile_RepoError(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.findByIDFunc = func(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
		return userdomain.User{}, errors.New("db down")
	}

	_, err := svc.Profile(context.Background(), "user-id-1")

	if !errors.Is(err, commonerrors.ErrInternalError) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
