package push

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vlasovdm/taskdeck/backend/internal/common/clock"
	commonerrors "github.com/vlasovdm/taskdeck/backend/internal/common/errors"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
	"github.com/vlasovdm/taskdeck/backend/internal/push/domain"
	"github.com/vlasovdm/taskdeck/backend/internal/push/service"
)

const testVAPIDPublicKey = "BNcRdreALRFXTkOOUHK1EtK2wtaz5Ry4YfYCA_0QTpQtUbVlUls0VJXg7A8u-Ts1XbjhazAkj7I99e8QcYP7DkM"

func setupPushService(t *testing.T) (*service.Service, *mockPushRepo, *clock.MockClock) {
	t.Helper()

	repo := &mockPushRepo{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	svc := service.NewService(repo, testVAPIDPublicKey, mockClock, log)
	return svc, repo, mockClock
}

func TestPushService_PublicKey(t *testing.T) {
	svc, _, _ := setupPushService(t)

	if svc.PublicKey() != testVAPIDPublicKey {
		t.Errorf("expected configured VAPID public key, got %s", svc.PublicKey())
	}
}

func TestPushService_Subscribe_StoresSubscription(t *testing.T) {
	svc, repo, mockClock := setupPushService(t)

	var stored domain.Subscription
	repo.upsertFunc = func(ctx context.Context, sub domain.Subscription) error {
		stored = sub
		return nil
	}

	expires := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	err := svc.Subscribe(context.Background(), "user-1", service.SubscribeInput{
		Endpoint:       "https://push.example.com/sub/abc",
		Keys:           domain.Keys{P256dh: "p256dh-key", Auth: "auth-key"},
		ExpirationTime: &expires,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stored.Endpoint != "https://push.example.com/sub/abc" {
		t.Errorf("unexpected endpoint %s", stored.Endpoint)
	}
	if stored.UserID != "user-1" {
		t.Errorf("unexpected user id %s", stored.UserID)
	}
	if stored.ExpiresAt == nil || !stored.ExpiresAt.Equal(expires) {
		t.Errorf("unexpected expires_at %v", stored.ExpiresAt)
	}
	if !stored.CreatedAt.Equal(mockClock.Now()) {
		t.Errorf("expected created_at from clock, got %v", stored.CreatedAt)
	}
}

// Re-subscribing with an endpoint another user registered hands the
// subscription over to the new owner.
func TestPushService_Subscribe_UpsertOverwrites(t *testing.T) {
	svc, repo, _ := setupPushService(t)

	subs := map[string]domain.Subscription{}
	repo.upsertFunc = func(ctx context.Context, sub domain.Subscription) error {
		subs[sub.Endpoint] = sub
		return nil
	}

	input := service.SubscribeInput{
		Endpoint: "https://push.example.com/sub/abc",
		Keys:     domain.Keys{P256dh: "old-p256dh", Auth: "old-auth"},
	}
	if err := svc.Subscribe(context.Background(), "user-1", input); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}

	input.Keys = domain.Keys{P256dh: "new-p256dh", Auth: "new-auth"}
	if err := svc.Subscribe(context.Background(), "user-2", input); err != nil {
		t.Fatalf("second subscribe: %v", err)
	}

	if len(subs) != 1 {
		t.Fatalf("expected 1 stored subscription, got %d", len(subs))
	}
	stored := subs["https://push.example.com/sub/abc"]
	if stored.UserID != "user-2" {
		t.Errorf("expected owner user-2, got %s", stored.UserID)
	}
	if stored.P256dh != "new-p256dh" {
		t.Errorf("expected keys to be overwritten, got %s", stored.P256dh)
	}
}

func TestPushService_Subscribe_RepoError(t *testing.T) {
	svc, repo, _ := setupPushService(t)

	repo.upsertFunc = func(ctx context.Context, sub domain.Subscription) error {
		return errors.New("db down")
	}

	err := svc.Subscribe(context.Background(), "user-1", service.SubscribeInput{
		Endpoint: "https://push.example.com/sub/abc",
		Keys:     domain.Keys{P256dh: "p", Auth: "a"},
	})

	if !errors.Is(err, commonerrors.ErrInternalError) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestPushService_Unsubscribe_Idempotent(t *testing.T) {
	svc, repo, _ := setupPushService(t)

	deleted := int64(1)
	repo.deleteByEndpointFunc = func(ctx context.Context, userID, endpoint string) (int64, error) {
		d := deleted
		deleted = 0
		return d, nil
	}

	if err := svc.Unsubscribe(context.Background(), "user-1", "https://push.example.com/sub/abc"); err != nil {
		t.Fatalf("first unsubscribe: %v", err)
	}
	if err := svc.Unsubscribe(context.Background(), "user-1", "https://push.example.com/sub/abc"); err != nil {
		t.Fatalf("second unsubscribe must succeed, got %v", err)
	}
	if err := svc.Unsubscribe(context.Background(), "user-1", "https://push.example.com/never-stored"); err != nil {
		t.Fatalf("unknown endpoint unsubscribe must succeed, got %v", err)
	}
}

func TestPushService_Unsubscribe_ScopedToOwner(t *testing.T) {
	svc, repo, _ := setupPushService(t)

	var gotUserID, gotEndpoint string
	repo.deleteByEndpointFunc = func(ctx context.Context, userID, endpoint string) (int64, error) {
		gotUserID = userID
		gotEndpoint = endpoint
		return 0, nil
	}

	if err := svc.Unsubscribe(context.Background(), "user-1", "https://push.example.com/sub/abc"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if gotUserID != "user-1" {
		t.Errorf("expected delete scoped to user-1, got %s", gotUserID)
	}
	if gotEndpoint != "https://push.example.com/sub/abc" {
		t.Errorf("unexpected endpoint %s", gotEndpoint)
	}
}

func TestPushService_DeactivateAll(t *testing.T) {
	svc, repo, _ := setupPushService(t)

	var gotUserID string
	repo.deleteAllByUserIDFunc = func(ctx context.Context, userID string) (int64, error) {
		gotUserID = userID
		return 3, nil
	}

	if err := svc.DeactivateAll(context.Background(), "user-1"); err != nil {
		t.Fatalf("deactivate all: %v", err)
	}
	if gotUserID != "user-1" {
		t.Errorf("expected deletes scoped to user-1, got %s", gotUserID)
	}
}

func TestPushService_DeactivateAll_RepoError(t *testing.T) {
	svc, repo, _ := setupPushService(t)

	repo.deleteAllByUserIDFunc = func(ctx context.Context, userID string) (int64, error) {
		return 0, errors.New("db down")
	}

	if err := svc.DeactivateAll(context.Background(), "user-1"); !errors.Is(err, commonerrors.ErrInternalError) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
