package push

import (
	"context"

	"github.com/vlasovdm/taskdeck/backend/internal/push/domain"
)

type mockPushRepo struct {
	upsertFunc            func(ctx context.Context, sub domain.Subscription) error
	findByUserIDFunc      func(ctx context.Context, userID string) ([]domain.Subscription, error)
	deleteByEndpointFunc  func(ctx context.Context, userID, endpoint string) (int64, error)
	deleteAllByUserIDFunc func(ctx context.Context, userID string) (int64, error)
	deleteExpiredFunc     func(ctx context.Context) (int64, error)
}

func (m *mockPushRepo) Upsert(ctx context.Context, sub domain.Subscription) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, sub)
	}
	return nil
}

func (m *mockPushRepo) FindByUserID(ctx context.Context, userID string) ([]domain.Subscription, error) {
	if m.findByUserIDFunc != nil {
		return m.findByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockPushRepo) DeleteByEndpoint(ctx context.Context, userID, endpoint string) (int64, error) {
	if m.deleteByEndpointFunc != nil {
		return m.deleteByEndpointFunc(ctx, userID, endpoint)
	}
	return 0, nil
}

func (m *mockPushRepo) DeleteAllByUserID(ctx context.Context, userID string) (int64, error) {
	if m.deleteAllByUserIDFunc != nil {
		return m.deleteAllByUserIDFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockPushRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx)
	}
	return 0, nil
}

type mockSender struct {
	sendFunc func(ctx context.Context, payload []byte, sub domain.Subscription) (int, error)
}

func (m *mockSender) Send(ctx context.Context, payload []byte, sub domain.Subscription) (int, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, payload, sub)
	}
	return 201, nil
}
