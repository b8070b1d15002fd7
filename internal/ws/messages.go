package ws

import (
	"encoding/json"

	"storefrontgo/internal/countdown"
)

// Envelope wraps every WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "auctions/bid"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// BidRequest is the body for "auctions/bid".
type BidRequest struct {
	Amount float64 `json:"amount"`
}

// BidAck carries the backend's message back to the submitting client.
type BidAck struct {
	Message string `json:"message"`
}

// SnapshotBody is the initial frame sent to a joining client.
type SnapshotBody struct {
	AuctionID string             `json:"auction_id"`
	Title     string             `json:"title"`
	StartsAt  int64              `json:"starts_at"`
	EndsAt    int64              `json:"ends_at"`
	Countdown countdown.Snapshot `json:"countdown"`
}

// TickBody is broadcast once per second while the auction is live.
type TickBody struct {
	AuctionID string             `json:"auction_id"`
	Countdown countdown.Snapshot `json:"countdown"`
}

// ExpiredBody is the terminal frame; after it, bidding controls stay disabled
// for the page's lifetime.
type ExpiredBody struct {
	AuctionID string `json:"auction_id"`
}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}

func marshalEnvelope(event string, body any) []byte {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil
	}
	out, err := json.Marshal(Envelope{Event: event, Body: raw})
	if err != nil {
		return nil
	}
	return out
}
