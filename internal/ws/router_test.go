package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_DispatchDecodesTypedRequest(t *testing.T) {
	r := NewRouter()
	Register(r, "auctions/bid", func(_ context.Context, cc *ConnContext, req BidRequest) (BidAck, error) {
		assert.Equal(t, "a1", cc.AuctionID)
		assert.Equal(t, 42.5, req.Amount)
		return BidAck{Message: "ok"}, nil
	})

	cc := &ConnContext{AuctionID: "a1", UserID: "u1"}
	res, err := r.dispatch(context.Background(), cc, Envelope{
		Event: "auctions/bid",
		Body:  json.RawMessage(`{"amount":42.5}`),
	})
	require.NoError(t, err)
	assert.Equal(t, BidAck{Message: "ok"}, res)
}

func TestRouter_UnknownEvent(t *testing.T) {
	r := NewRouter()
	_, err := r.dispatch(context.Background(), &ConnContext{}, Envelope{Event: "nope"})
	assert.EqualError(t, err, "unknown_event")
}

func TestWrapBidEvent(t *testing.T) {
	out, err := wrapBidEvent(`{"event":"bid","bidder":"u1","amount":10}`)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(out, &env))
	assert.Equal(t, "auctions/bid", env.Event)

	var body map[string]any
	require.NoError(t, json.Unmarshal(env.Body, &body))
	assert.Equal(t, "u1", body["bidder"])
	_, hasEvent := body["event"]
	assert.False(t, hasEvent, "event key must not be duplicated inside the body")
}

func TestMarshalEnvelope(t *testing.T) {
	out := marshalEnvelope("auctions/expired", ExpiredBody{AuctionID: "a1"})
	var env Envelope
	require.NoError(t, json.Unmarshal(out, &env))
	assert.Equal(t, "auctions/expired", env.Event)
}
