package cart

import (
	"context"
	"errors"

	"go-retail-api/internal/middleware"
	"go-retail-api/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Merger folds a guest cart into the signed-in user's persistent cart.
// Quantities of products present in both are summed; there is no stock check.
type Merger struct {
	sessions    SessionStore
	persistent  PersistentCart
	logger      *zap.Logger
	maxAttempts int
}

func NewMerger(sessions SessionStore, persistent PersistentCart, logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{
		sessions:    sessions,
		persistent:  persistent,
		logger:      logger.Named("cart.merger"),
		maxAttempts: maxSaveAttempts,
	}
}

// Merge reports whether a merge happened. The guest cart is claimed before
// anything else, so concurrent requests of the same session cannot both fold
// it in. If the user cart cannot be saved the claimed lines go back to the
// session for the next request.
func (m *Merger) Merge(ctx context.Context, sessionID string, userID uuid.UUID) (Snapshot, bool, error) {
	guest, err := m.sessions.Claim(ctx, sessionID)
	if err != nil {
		return Snapshot{}, false, err
	}
	if guest.IsEmpty() {
		return Snapshot{}, false, nil
	}

	log := m.logger.With(
		zap.String("user_id", userID.String()),
		zap.String("session_id", sessionID),
	)

	var merged *Cart
	for attempt := 1; ; attempt++ {
		merged, err = m.persistent.Load(ctx, userID)
		if err == nil {
			merged.MergeFrom(guest)
			err = m.persistent.Save(ctx, userID, merged)
		}
		if err == nil {
			break
		}
		if !errors.Is(err, ErrCartVersionConflict) || attempt >= m.maxAttempts {
			metrics.CartMerges.WithLabelValues("failed").Inc()
			log.Warn("guest cart merge failed", zap.Int("attempt", attempt), zap.Error(err))
			m.restore(ctx, guest, log)
			return Snapshot{}, false, err
		}
		metrics.CartMerges.WithLabelValues("retried").Inc()
	}

	metrics.CartMerges.WithLabelValues("merged").Inc()
	log.Info("guest cart merged", zap.Int("guest_lines", len(guest.Items)))
	return merged.Snapshot(), true, nil
}

// restore puts claimed lines back, folded into anything the session gained
// meanwhile. It runs detached from the request so a dropped client still
// gets its guest cart back.
func (m *Merger) restore(ctx context.Context, guest *Cart, log *zap.Logger) {
	ctx = context.WithoutCancel(ctx)

	current, err := m.sessions.Load(ctx, guest.OwnerKey)
	if err == nil {
		current.MergeFrom(guest)
		err = m.sessions.Save(ctx, current)
	}
	if err != nil {
		log.Error("guest cart restore failed", zap.Int("guest_lines", len(guest.Items)), zap.Error(err))
	}
}

// MergeGuestCart runs the merge for authenticated requests that still carry a
// guest session with items. Failures are logged and the request continues.
func MergeGuestCart(m *Merger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.CurrentActor(c)
		if ok && actor.IsUser() && actor.SessionID != "" {
			if _, _, err := m.Merge(c.Request.Context(), actor.SessionID, actor.UserID); err != nil {
				m.logger.Warn("merge on login deferred",
					zap.String("user_id", actor.UserID.String()),
					zap.Error(err),
				)
			}
		}
		c.Next()
	}
}
