// Package expirywatcher turns Redis keyspace-expiry events for auction timer
// keys into the irreversible expired latch, on every gateway instance at
// once.
package expirywatcher

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefrontgo/internal/services/auction"
)

// Latch is the part of the auction service the watcher drives.
type Latch interface {
	MarkExpired(auctionID string)
}

// Notifier lets the live layer tell connected clients the auction ended.
// Optional.
type Notifier interface {
	AuctionExpired(auctionID string)
}

// Run listens to key-expiry events until ctx is cancelled. Run must be
// started once at service boot.
func Run(ctx context.Context, rdb *redis.Client, latch Latch, notify Notifier) {
	if err := rdb.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err(); err != nil {
		zap.L().Warn("expirywatcher.config", zap.Error(err))
	}
	ps := rdb.PSubscribe(ctx, "__keyevent@*__:expired")
	defer ps.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ps.Channel():
			if !ok {
				return
			}
			handleExpiredKey(m.Payload, latch, notify)
		}
	}
}

// handleExpiredKey reacts to one expired Redis key. Only auction timer keys
// drive the latch; every other expiry in the keyspace is ignored.
func handleExpiredKey(key string, latch Latch, notify Notifier) bool {
	id, matched := strings.CutPrefix(key, auction.TimerKey(""))
	if !matched || id == "" {
		return false
	}
	latch.MarkExpired(id)
	if notify != nil {
		notify.AuctionExpired(id)
	}
	zap.L().Info("auction_expired", zap.String("auction_id", id))
	return true
}
