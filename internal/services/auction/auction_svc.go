package auction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefrontgo/internal/audit"
	"storefrontgo/internal/countdown"
	"storefrontgo/internal/upstream"
)

const (
	// Timer keys carry a TTL to the window end; their keyspace-expiry event
	// latches the auction as expired on every gateway instance.
	redisAuctionTimerKeyPrefix = "auc_t:"
	eventChannelPrefix         = "auc:"
	eventChannelSuffix         = ":events"
)

var (
	ErrInvalidAmount  = errors.New("bid amount must be a positive number")
	ErrAuctionExpired = errors.New("auction has ended")
	ErrBidInFlight    = errors.New("a bid for this auction is already being placed")
)

// EventChannel is the Redis pubsub channel carrying accepted-bid events for
// one auction.
func EventChannel(auctionID string) string {
	return eventChannelPrefix + auctionID + eventChannelSuffix
}

// TimerKey is the Redis key whose expiry marks the end of the auction window.
func TimerKey(auctionID string) string {
	return redisAuctionTimerKeyPrefix + auctionID
}

// Backend is the slice of the upstream client this service needs.
type Backend interface {
	GetAuction(ctx context.Context, auctionID string) (*upstream.Auction, error)
	ListAuctionBids(ctx context.Context, auctionID string) ([]upstream.Bid, error)
	CreateBid(ctx context.Context, req upstream.BidRequest) (string, error)
}

// Sink receives the audit record of every forwarded bid.
type Sink interface {
	Record(e audit.Entry)
}

type IAuctionService interface {
	GetAuction(ctx context.Context, auctionID string) (*upstream.Auction, error)
	ListBids(ctx context.Context, auctionID string) ([]upstream.Bid, error)
	PlaceBid(ctx context.Context, userID, auctionID string, amount float64) (string, error)
	Countdown(ctx context.Context, auctionID string) (countdown.Snapshot, error)
	Window(ctx context.Context, auctionID string) (countdown.Window, error)
	MarkExpired(auctionID string)
	IsExpired(auctionID string) bool
}

type auctionService struct {
	backend   Backend
	rdc       *redis.Client
	clock     countdown.Clock
	snapshots *cache.Cache
	sink      Sink

	mu       sync.Mutex
	expired  map[string]struct{}
	inflight map[string]struct{}
}

func NewAuctionService(backend Backend, rdc *redis.Client, clock countdown.Clock,
	snapshotTTL time.Duration, sink Sink) IAuctionService {

	return &auctionService{
		backend:   backend,
		rdc:       rdc,
		clock:     clock,
		snapshots: cache.New(snapshotTTL, 2*snapshotTTL),
		sink:      sink,
		expired:   make(map[string]struct{}),
		inflight:  make(map[string]struct{}),
	}
}

// GetAuction proxies the backend with a short-lived snapshot cache and fails
// fast on an inverted auction window.
func (svc *auctionService) GetAuction(ctx context.Context, auctionID string) (*upstream.Auction, error) {
	if v, ok := svc.snapshots.Get(auctionID); ok {
		return v.(*upstream.Auction), nil
	}

	a, err := svc.backend.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	w := countdown.Window{StartsAt: a.StartsAt, EndsAt: a.EndsAt}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("auction %s: %w", auctionID, err)
	}

	svc.snapshots.Set(auctionID, a, cache.DefaultExpiration)
	svc.watchWindow(ctx, auctionID, a.EndsAt)
	return a, nil
}

func (svc *auctionService) ListBids(ctx context.Context, auctionID string) ([]upstream.Bid, error) {
	// Always re-fetched, never mutated locally after a bid.
	return svc.backend.ListAuctionBids(ctx, auctionID)
}

// PlaceBid gates a bid on validity, liveness and duplicate submission, then
// forwards it. The backend's message is returned verbatim on success.
func (svc *auctionService) PlaceBid(ctx context.Context, userID, auctionID string, amount float64) (string, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return "", ErrInvalidAmount
	}
	if svc.IsExpired(auctionID) {
		return "", ErrAuctionExpired
	}

	a, err := svc.GetAuction(ctx, auctionID)
	if err != nil {
		return "", err
	}
	if !svc.clock.Now().Before(a.EndsAt) {
		svc.MarkExpired(auctionID)
		return "", ErrAuctionExpired
	}

	key := userID + "|" + auctionID
	if !svc.acquire(key) {
		return "", ErrBidInFlight
	}
	defer svc.release(key)

	msg, err := svc.backend.CreateBid(ctx, upstream.BidRequest{
		UserID:    userID,
		AuctionID: auctionID,
		BidValue:  amount,
	})
	svc.record(userID, auctionID, amount, err)
	if err != nil {
		return "", err
	}

	svc.publishBid(ctx, auctionID, userID, amount)
	return msg, nil
}

func (svc *auctionService) Countdown(ctx context.Context, auctionID string) (countdown.Snapshot, error) {
	if svc.IsExpired(auctionID) {
		return countdown.Remaining(time.Time{}, time.Time{}), nil
	}
	a, err := svc.GetAuction(ctx, auctionID)
	if err != nil {
		return countdown.Snapshot{}, err
	}
	return countdown.Remaining(svc.clock.Now(), a.EndsAt), nil
}

func (svc *auctionService) Window(ctx context.Context, auctionID string) (countdown.Window, error) {
	a, err := svc.GetAuction(ctx, auctionID)
	if err != nil {
		return countdown.Window{}, err
	}
	return countdown.Window{StartsAt: a.StartsAt, EndsAt: a.EndsAt}, nil
}

// MarkExpired latches the auction closed. The latch is irreversible for the
// process lifetime; only a fresh auction ID re-enables bidding.
func (svc *auctionService) MarkExpired(auctionID string) {
	svc.mu.Lock()
	svc.expired[auctionID] = struct{}{}
	svc.mu.Unlock()
}

func (svc *auctionService) IsExpired(auctionID string) bool {
	svc.mu.Lock()
	_, ok := svc.expired[auctionID]
	svc.mu.Unlock()
	return ok
}

func (svc *auctionService) acquire(key string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if _, busy := svc.inflight[key]; busy {
		return false
	}
	svc.inflight[key] = struct{}{}
	return true
}

func (svc *auctionService) release(key string) {
	svc.mu.Lock()
	delete(svc.inflight, key)
	svc.mu.Unlock()
}

// watchWindow arms the shared expiry timer key the first time a live auction
// is seen. SetNX keeps the earliest TTL when several instances race.
func (svc *auctionService) watchWindow(ctx context.Context, auctionID string, endsAt time.Time) {
	ttl := endsAt.Sub(svc.clock.Now())
	if ttl <= 0 {
		svc.MarkExpired(auctionID)
		return
	}
	if svc.rdc == nil {
		return
	}
	if err := svc.rdc.SetNX(ctx, TimerKey(auctionID), 1, ttl).Err(); err != nil {
		zap.L().Warn("auction.watch_window", zap.String("auction_id", auctionID), zap.Error(err))
	}
}

func (svc *auctionService) publishBid(ctx context.Context, auctionID, userID string, amount float64) {
	if svc.rdc == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"event":  "bid",
		"bidder": userID,
		"amount": amount,
		"at":     svc.clock.Now().Unix(),
	})
	if err := svc.rdc.Publish(ctx, EventChannel(auctionID), payload).Err(); err != nil {
		zap.L().Warn("auction.publish_bid", zap.String("auction_id", auctionID), zap.Error(err))
	}
}

func (svc *auctionService) record(userID, auctionID string, amount float64, bidErr error) {
	if svc.sink == nil {
		return
	}
	e := audit.Entry{
		AuctionID: auctionID,
		UserID:    userID,
		Amount:    amount,
		Accepted:  bidErr == nil,
		At:        svc.clock.Now().UTC(),
	}
	if bidErr != nil {
		e.Reason = bidErr.Error()
	}
	svc.sink.Record(e)
}
