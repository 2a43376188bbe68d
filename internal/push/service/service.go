package service

import (
	"context"
	"time"

	"github.com/vlasovdm/taskdeck/backend/internal/common/clock"
	commonerrors "github.com/vlasovdm/taskdeck/backend/internal/common/errors"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
	"github.com/vlasovdm/taskdeck/backend/internal/push/domain"
	pushrepo "github.com/vlasovdm/taskdeck/backend/internal/push/repository"
)

type SubscribeInput struct {
	Endpoint       string
	Keys           domain.Keys
	ExpirationTime *time.Time
}

// Service owns the push subscription lifecycle: storing endpoints keyed
// by their URL, handing out the VAPID public key to clients, and removing
// subscriptions on unsubscribe or bulk deactivation.
type Service struct {
	repo           pushrepo.Repository
	vapidPublicKey string
	clock          clock.Clock
	log            *logger.Logger
}

func NewService(repo pushrepo.Repository, vapidPublicKey string, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{
		repo:           repo,
		vapidPublicKey: vapidPublicKey,
		clock:          clk,
		log:            log,
	}
}

func (s *Service) PublicKey() string {
	return s.vapidPublicKey
}

// Subscribe upserts by endpoint: re-subscribing with the same endpoint
// overwrites the stored keys and owner.
func (s *Service) Subscribe(ctx context.Context, userID string, input SubscribeInput) error {
	sub := domain.Subscription{
		Endpoint:  input.Endpoint,
		UserID:    userID,
		P256dh:    input.Keys.P256dh,
		Auth:      input.Keys.Auth,
		ExpiresAt: input.ExpirationTime,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Upsert(ctx, sub); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "push_subscribe_failed",
		}).Errorf("push subscribe failed: %v", err)
		return commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"action":  "push_subscribed",
	}).Info("push subscription stored")
	incrementSubscriptionsCreated()

	return nil
}

// Unsubscribe is idempotent: deleting an endpoint that is not stored (or
// that belongs to another user) succeeds without effect.
func (s *Service) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	deleted, err := s.repo.DeleteByEndpoint(ctx, userID, endpoint)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "push_unsubscribe_failed",
		}).Errorf("push unsubscribe failed: %v", err)
		return commonerrors.ErrInternalError.WithCause(err)
	}

	if deleted > 0 {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "push_unsubscribed",
		}).Info("push subscription removed")
		incrementSubscriptionsDeleted("unsubscribe")
	}

	return nil
}

func (s *Service) DeactivateAll(ctx context.Context, userID string) error {
	deleted, err := s.repo.DeleteAllByUserID(ctx, userID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "push_deactivate_all_failed",
		}).Errorf("push deactivate all failed: %v", err)
		return commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"deleted": deleted,
		"action":  "push_deactivated_all",
	}).Info("push subscriptions deactivated")
	addSubscriptionsDeleted("deactivate_all", deleted)

	return nil
}
