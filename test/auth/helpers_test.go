package auth

import (
	"testing"
	"time"

	"github.com/vlasovdm/taskdeck/backend/internal/auth/service"
	"github.com/vlasovdm/taskdeck/backend/internal/common/clock"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
)

const testJWTSecret = "test-secret-key-must-be-at-least-32-bytes-long"

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockHasher, *mockIDGenerator, *clock.MockClock) {
	t.Helper()

	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	idGenerator := &mockIDGenerator{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	issuer := service.NewTokenIssuer(testJWTSecret, idGenerator, 15*time.Minute, mockClock)
	svc := service.NewAuthService(repo, hasher, idGenerator, issuer, log)

	return svc, repo, hasher, idGenerator, mockClock
}
