package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/vlasovdm/taskdeck/backend/internal/common/clock"
	commonerrors "github.com/vlasovdm/taskdeck/backend/internal/common/errors"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
	"github.com/vlasovdm/taskdeck/backend/internal/push/domain"
	"github.com/vlasovdm/taskdeck/backend/internal/push/service"
)

func setupDispatcher(t *testing.T) (*service.Dispatcher, *mockPushRepo, *mockSender) {
	t.Helper()

	repo := &mockPushRepo{}
	sender := &mockSender{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	return service.NewDispatcher(repo, sender, mockClock, log), repo, sender
}

func twoSubscriptions(userID string) []domain.Subscription {
	return []domain.Subscription{
		{Endpoint: "https://push.example.com/sub/1", UserID: userID, P256dh: "p1", Auth: "a1"},
		{Endpoint: "https://push.example.com/sub/2", UserID: userID, P256dh: "p2", Auth: "a2"},
	}
}

func TestDispatcher_NotifyUser_SendsToAllSubscriptions(t *testing.T) {
	d, repo, sender := setupDispatcher(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) ([]domain.Subscription, error) {
		return twoSubscriptions(userID), nil
	}

	var endpoints []string
	var lastPayload []byte
	sender.sendFunc = func(ctx context.Context, payload []byte, sub domain.Subscription) (int, error) {
		endpoints = append(endpoints, sub.Endpoint)
		lastPayload = payload
		return http.StatusCreated, nil
	}

	err := d.NotifyUser(context.Background(), "user-1", service.Notification{
		Title: "Task due",
		Body:  "Finish the report",
		URL:   "/tasks/42",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(endpoints) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(endpoints))
	}

	var payload service.Notification
	if err := json.Unmarshal(lastPayload, &payload); err != nil {
		t.Fatalf("payload is not valid json: %v", err)
	}
	if payload.Title != "Task due" || payload.URL != "/tasks/42" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestDispatcher_NotifyUser_NoSubscriptions(t *testing.T) {
	d, repo, sender := setupDispatcher(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) ([]domain.Subscription, error) {
		return nil, nil
	}
	sender.sendFunc = func(ctx context.Context, payload []byte, sub domain.Subscription) (int, error) {
		t.Error("sender must not be called without subscriptions")
		return 0, nil
	}

	if err := d.NotifyUser(context.Background(), "user-1", service.Notification{Title: "x"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

// One failing endpoint must not stop delivery to the remaining ones.
func TestDispatcher_NotifyUser_BestEffort(t *testing.T) {
	d, repo, sender := setupDispatcher(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) ([]domain.Subscription, error) {
		return twoSubscriptions(userID), nil
	}

	var sends int
	sender.sendFunc = func(ctx context.Context, payload []byte, sub domain.Subscription) (int, error) {
		sends++
		if sends == 1 {
			return 0, errors.New("connection refused")
		}
		return http.StatusCreated, nil
	}

	err := d.NotifyUser(context.Background(), "user-1", service.Notification{Title: "x"})

	if sends != 2 {
		t.Errorf("expected both endpoints attempted, got %d sends", sends)
	}
	if !errors.Is(err, commonerrors.ErrPushDeliveryFailed) {
		t.Fatalf("expected ErrPushDeliveryFailed, got %v", err)
	}
}

func TestDispatcher_NotifyUser_GoneSubscriptionDeleted(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone} {
		d, repo, sender := setupDispatcher(t)

		repo.findByUserIDFunc = func(ctx context.Context, userID string) ([]domain.Subscription, error) {
			return []domain.Subscription{
				{Endpoint: "https://push.example.com/sub/gone", UserID: userID, P256dh: "p", Auth: "a"},
			}, nil
		}
		sender.sendFunc = func(ctx context.Context, payload []byte, sub domain.Subscription) (int, error) {
			return status, nil
		}

		var deletedEndpoint string
		repo.deleteByEndpointFunc = func(ctx context.Context, userID, endpoint string) (int64, error) {
			deletedEndpoint = endpoint
			return 1, nil
		}

		err := d.NotifyUser(context.Background(), "user-1", service.Notification{Title: "x"})
		if err == nil {
			t.Errorf("status %d: expected error", status)
		}
		if deletedEndpoint != "https://push.example.com/sub/gone" {
			t.Errorf("status %d: expected gone subscription deleted, got %q", status, deletedEndpoint)
		}
	}
}

func TestDispatcher_NotifyUser_RejectedDelivery(t *testing.T) {
	d, repo, sender := setupDispatcher(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) ([]domain.Subscription, error) {
		return twoSubscriptions(userID)[:1], nil
	}
	sender.sendFunc = func(ctx context.Context, payload []byte, sub domain.Subscription) (int, error) {
		return http.StatusRequestEntityTooLarge, nil
	}

	deleteCalled := false
	repo.deleteByEndpointFunc = func(ctx context.Context, userID, endpoint string) (int64, error) {
		deleteCalled = true
		return 1, nil
	}

	err := d.NotifyUser(context.Background(), "user-1", service.Notification{Title: "x"})

	if !errors.Is(err, commonerrors.ErrPushDeliveryFailed) {
		t.Fatalf("expected ErrPushDeliveryFailed, got %v", err)
	}
	if deleteCalled {
		t.Error("a 413 must not delete the subscription")
	}
}

func TestDispatcher_NotifyUser_LookupError(t *testing.T) {
	d, repo, _ := setupDispatcher(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) ([]domain.Subscription, error) {
		return nil, errors.New("db down")
	}

	if err := d.NotifyUser(context.Background(), "user-1", service.Notification{Title: "x"}); !errors.Is(err, commonerrors.ErrInternalError) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
