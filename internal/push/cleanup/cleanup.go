package cleanup

import (
	"context"
	"time"

	"github.com/vlasovdm/taskdeck/backend/internal/common/constants"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
	"github.com/vlasovdm/taskdeck/backend/internal/observability/metrics"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StartSubscriptionCleanup periodically prunes subscriptions whose
// client-reported expiration time has passed. Runs until ctx is done.
func StartSubscriptionCleanup(ctx context.Context, repo ExpiredDeleter, log *logger.Logger) {
	ticker := time.NewTicker(constants.SubscriptionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Errorf("push subscription cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				metrics.PushSubscriptionsCleanupDeleted.Add(float64(deleted))
				log.Infof("push subscription cleanup: deleted %d expired subscriptions", deleted)
			}
		}
	}
}
