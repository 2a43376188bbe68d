package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/vlasovdm/taskdeck/backend/internal/common/clock"
	commonerrors "github.com/vlasovdm/taskdeck/backend/internal/common/errors"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
	"github.com/vlasovdm/taskdeck/backend/internal/push/domain"
	pushrepo "github.com/vlasovdm/taskdeck/backend/internal/push/repository"
)

// Notification is the payload rendered by the service worker. Fields are
// omitted when empty so the worker's defaults apply.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Tag   string `json:"tag,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Sender pushes an encrypted payload to a single subscription endpoint
// and reports the push service's HTTP status.
type Sender interface {
	Send(ctx context.Context, payload []byte, sub domain.Subscription) (int, error)
}

type VAPIDConfig struct {
	PublicKey   string
	PrivateKey  string
	Subject     string
	TTLSeconds  int
	SendTimeout time.Duration
}

type webpushSender struct {
	cfg    VAPIDConfig
	client *http.Client
}

func NewWebPushSender(cfg VAPIDConfig) Sender {
	return &webpushSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.SendTimeout},
	}
}

func (s *webpushSender) Send(ctx context.Context, payload []byte, sub domain.Subscription) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.cfg.Subject,
		VAPIDPublicKey:  s.cfg.PublicKey,
		VAPIDPrivateKey: s.cfg.PrivateKey,
		TTL:             s.cfg.TTLSeconds,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// Dispatcher fans a notification out to every subscription a user holds.
// Delivery is best effort: failures are counted and logged, never retried.
// A 404 or 410 from the push service means the subscription is gone on
// the client side, so the stored row is deleted.
type Dispatcher struct {
	repo   pushrepo.Repository
	sender Sender
	clock  clock.Clock
	log    *logger.Logger
}

func NewDispatcher(repo pushrepo.Repository, sender Sender, clk clock.Clock, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		sender: sender,
		clock:  clk,
		log:    log,
	}
}

func (d *Dispatcher) NotifyUser(ctx context.Context, userID string, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return commonerrors.ErrInternalError.WithCause(err)
	}

	subs, err := d.repo.FindByUserID(ctx, userID)
	if err != nil {
		d.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "push_dispatch_lookup_failed",
		}).Errorf("push dispatch failed: subscription lookup error: %v", err)
		return commonerrors.ErrInternalError.WithCause(err)
	}

	if len(subs) == 0 {
		return nil
	}

	var lastErr error
	for _, sub := range subs {
		if err := d.sendOne(ctx, payload, sub); err != nil {
			lastErr = err
		}
	}

	if lastErr != nil {
		return commonerrors.ErrPushDeliveryFailed.WithCause(lastErr)
	}
	return nil
}

func (d *Dispatcher) sendOne(ctx context.Context, payload []byte, sub domain.Subscription) error {
	start := d.clock.Now()
	status, err := d.sender.Send(ctx, payload, sub)
	observeSendDuration(d.clock.Since(start).Seconds())

	if err != nil {
		d.log.WithFields(ctx, logger.Fields{
			"user_id": sub.UserID,
			"action":  "push_send_failed",
		}).Warnf("push send failed: %v", err)
		incrementMessagesFailed("transport_error")
		return err
	}

	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		d.log.WithFields(ctx, logger.Fields{
			"user_id": sub.UserID,
			"status":  status,
			"action":  "push_subscription_gone",
		}).Info("push subscription gone, deleting")
		incrementMessagesFailed(strconv.Itoa(status))
		if _, delErr := d.repo.DeleteByEndpoint(ctx, sub.UserID, sub.Endpoint); delErr != nil {
			d.log.WithFields(ctx, logger.Fields{
				"user_id": sub.UserID,
				"action":  "push_subscription_gone_delete_failed",
			}).Errorf("failed to delete gone subscription: %v", delErr)
		} else {
			incrementSubscriptionsDeleted("gone")
		}
		return commonerrors.ErrSubscriptionNotFound
	case status >= 400:
		d.log.WithFields(ctx, logger.Fields{
			"user_id": sub.UserID,
			"status":  status,
			"action":  "push_send_rejected",
		}).Warnf("push service rejected delivery: status %d", status)
		incrementMessagesFailed(strconv.Itoa(status))
		return commonerrors.ErrPushDeliveryFailed
	default:
		incrementMessagesSent()
		return nil
	}
}
