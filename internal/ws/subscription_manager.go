package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefrontgo/internal/countdown"
	"storefrontgo/internal/services/auction"
)

// subscriptionManager guarantees exactly one Redis subscription and one
// countdown loop per watched auction, no matter how many websocket clients
// join the same room.
type subscriptionManager struct {
	rdb   *redis.Client
	hub   *Hub
	svc   auction.IAuctionService
	clock countdown.Clock

	mu   sync.Mutex
	subs map[string]*subEntry // auctionID -> subscription data
}

type subEntry struct {
	refCnt int
	cancel context.CancelFunc
}

func newSubscriptionManager(rdb *redis.Client, hub *Hub, svc auction.IAuctionService,
	clock countdown.Clock) *subscriptionManager {

	return &subscriptionManager{
		rdb:   rdb,
		hub:   hub,
		svc:   svc,
		clock: clock,
		subs:  make(map[string]*subEntry),
	}
}

// Subscribe ensures the auction's fanout and countdown are running;
// subsequent calls for the same auction only bump the ref-counter.
func (sm *subscriptionManager) Subscribe(auctionID string) {
	sm.mu.Lock()
	if e, ok := sm.subs[auctionID]; ok {
		e.refCnt++
		sm.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sm.subs[auctionID] = &subEntry{refCnt: 1, cancel: cancel}
	sm.mu.Unlock()

	go sm.fanout(ctx, auctionID)
	go sm.tick(ctx, auctionID)
}

// Unsubscribe decrements the ref-counter and tears both loops down when the
// last websocket client leaves the room.
func (sm *subscriptionManager) Unsubscribe(auctionID string) {
	sm.mu.Lock()
	e, ok := sm.subs[auctionID]
	if !ok {
		sm.mu.Unlock()
		return
	}
	e.refCnt--
	if e.refCnt > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.subs, auctionID)
	sm.mu.Unlock()

	// Outside the lock: stop the fanout and countdown goroutines.
	e.cancel()
}

// fanout forwards bid events published by any gateway instance into the
// in-process hub, wrapped in the public envelope.
func (sm *subscriptionManager) fanout(ctx context.Context, auctionID string) {
	ps := sm.rdb.Subscribe(ctx, auction.EventChannel(auctionID))
	defer ps.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ps.Channel():
			if !ok {
				return
			}
			wrapped, err := wrapBidEvent(m.Payload)
			if err != nil {
				zap.L().Warn("ws.wrap_event_failed", zap.Error(err))
				continue
			}
			sm.hub.Broadcast(auctionID, wrapped)
		}
	}
}

// tick drives one countdown.Timer for the auction and broadcasts every
// snapshot. The terminal expired snapshot also latches the service and yields
// the irreversible "auctions/expired" frame.
func (sm *subscriptionManager) tick(ctx context.Context, auctionID string) {
	w, err := sm.svc.Window(ctx, auctionID)
	if err != nil {
		zap.L().Warn("ws.window", zap.String("auction_id", auctionID), zap.Error(err))
		return
	}

	timer := countdown.NewTimer(sm.clock, w)
	for snap := range timer.Start(ctx) {
		sm.hub.Broadcast(auctionID, marshalEnvelope("auctions/tick", TickBody{
			AuctionID: auctionID,
			Countdown: snap,
		}))
		if snap.Expired {
			sm.svc.MarkExpired(auctionID)
			sm.hub.Broadcast(auctionID, marshalEnvelope("auctions/expired", ExpiredBody{AuctionID: auctionID}))
		}
	}
}

// wrapBidEvent turns
//
//	{"event":"bid","bidder":"u1",...}
//
// into
//
//	{"event":"auctions/bid","body":{"bidder":"u1",...}}
func wrapBidEvent(payload string) ([]byte, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, err
	}

	evt, _ := raw["event"].(string)
	if evt == "" {
		evt = "unknown"
	}
	delete(raw, "event") // avoid duplication inside body

	body, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: "auctions/" + evt, Body: body})
}
