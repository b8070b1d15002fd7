package ws

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefrontgo/internal/countdown"
	"storefrontgo/internal/upstream"
)

// roomStubSvc satisfies the auction service with a failing Window so the
// countdown loop exits without ever arming a ticker.
type roomStubSvc struct{}

func (roomStubSvc) GetAuction(context.Context, string) (*upstream.Auction, error) {
	return nil, assert.AnError
}

func (roomStubSvc) ListBids(context.Context, string) ([]upstream.Bid, error) {
	return nil, assert.AnError
}

func (roomStubSvc) PlaceBid(context.Context, string, string, float64) (string, error) {
	return "", assert.AnError
}

func (roomStubSvc) Countdown(context.Context, string) (countdown.Snapshot, error) {
	return countdown.Snapshot{}, assert.AnError
}

func (roomStubSvc) Window(context.Context, string) (countdown.Window, error) {
	return countdown.Window{}, assert.AnError
}

func (roomStubSvc) MarkExpired(string)    {}
func (roomStubSvc) IsExpired(string) bool { return false }

func newTestSubManager() *subscriptionManager {
	rdc, _ := redismock.NewClientMock()
	return newSubscriptionManager(rdc, NewHub(), roomStubSvc{}, countdown.SystemClock)
}

func (sm *subscriptionManager) entrySnapshot(auctionID string) (int, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	e, ok := sm.subs[auctionID]
	if !ok {
		return 0, false
	}
	return e.refCnt, true
}

func TestSubscribeSharesOneSubscriptionPerAuction(t *testing.T) {
	sm := newTestSubManager()

	sm.Subscribe("auc1")
	sm.Subscribe("auc1")
	sm.Subscribe("auc1")

	sm.mu.Lock()
	require.Len(t, sm.subs, 1, "one entry regardless of room population")
	sm.mu.Unlock()

	refs, ok := sm.entrySnapshot("auc1")
	require.True(t, ok)
	assert.Equal(t, 3, refs)
}

func TestUnsubscribeTearsDownOnlyOnLastClient(t *testing.T) {
	sm := newTestSubManager()

	sm.Subscribe("auc1")
	sm.Subscribe("auc1")
	sm.Subscribe("auc1")

	sm.Unsubscribe("auc1")
	sm.Unsubscribe("auc1")
	refs, ok := sm.entrySnapshot("auc1")
	require.True(t, ok, "entry survives while clients remain")
	assert.Equal(t, 1, refs)

	sm.Unsubscribe("auc1")
	_, ok = sm.entrySnapshot("auc1")
	assert.False(t, ok, "last client tears the subscription down")
}

func TestSubscriptionsAreIndependentPerAuction(t *testing.T) {
	sm := newTestSubManager()

	sm.Subscribe("auc1")
	sm.Subscribe("auc2")
	sm.Unsubscribe("auc1")

	_, ok := sm.entrySnapshot("auc1")
	assert.False(t, ok)
	refs, ok := sm.entrySnapshot("auc2")
	require.True(t, ok)
	assert.Equal(t, 1, refs)
}

func TestUnsubscribeUnknownAuctionIsANoOp(t *testing.T) {
	sm := newTestSubManager()

	sm.Unsubscribe("never-subscribed")

	sm.mu.Lock()
	assert.Empty(t, sm.subs)
	sm.mu.Unlock()
}
