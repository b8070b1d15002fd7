// Package upstream is the typed client for the external marketplace backend.
// The backend owns every piece of real business logic; this client only
// shapes requests, carries the bearer token and maps failures.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx backend reply with its user-facing message, when the
// backend supplied one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

// Login failure messages the backend is known to emit, mapped to the
// storefront's user-facing taxonomy. Anything else falls back to a generic
// retry message.
const (
	msgWrongPassword   = "Wrong password"
	msgNoUser          = "No user found"
	msgNoLicense       = "Access denied. No verified license found."
	GenericLoginFailed = "Authentication failed. Please try again."
)

// FriendlyLoginMessage translates a Login error into the message shown to the
// user.
func FriendlyLoginMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return GenericLoginFailed
	}
	switch apiErr.Message {
	case msgWrongPassword:
		return "The password you entered is incorrect."
	case msgNoUser:
		return "Please check your email or Sign Up."
	case msgNoLicense:
		return "Your licence is under verification."
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericLoginFailed
}

type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// WithToken returns a shallow copy that sends the bearer token on every call.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// envelope is the backend's uniform JSON reply shape.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, in any) (*envelope, error) {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	env := &envelope{}
	// A broken body on an error status must still yield the status error.
	decodeErr := json.NewDecoder(resp.Body).Decode(env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	return env, nil
}

func (c *Client) get(ctx context.Context, path string, out any) (*envelope, error) {
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode GET %s data: %w", path, err)
		}
	}
	return env, nil
}

// ───────────────────────────── auth ─────────────────────────────

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, "/auth/login", payload)
	if err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: env.Message}
	}
	res := &LoginResult{Message: env.Message}
	if len(env.Data) > 0 {
		var aux struct {
			Token    string `json:"token"`
			UserData any    `json:"userData"`
		}
		if err := json.Unmarshal(env.Data, &aux); err == nil {
			res.Token = aux.Token
			res.UserData = aux.UserData
		}
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, sub RegistrationSubmission) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/register", sub)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ───────────────────────── auctions & bids ──────────────────────

func (c *Client) GetAuction(ctx context.Context, auctionID string) (*Auction, error) {
	a := &Auction{}
	if _, err := c.get(ctx, "/api/auction/"+auctionID, a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		a.ID = auctionID
	}
	return a, nil
}

func (c *Client) ListAuctionBids(ctx context.Context, auctionID string) ([]Bid, error) {
	bids := []Bid{}
	if _, err := c.get(ctx, "/api/user/auction/"+auctionID, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

// CreateBid forwards one bid and returns the backend's user-facing message.
func (c *Client) CreateBid(ctx context.Context, req BidRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/user/bid/create", req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ───────────────────────────── reviews ──────────────────────────

func (c *Client) ListProductReviews(ctx context.Context, productID string) ([]Review, error) {
	reviews := []Review{}
	if _, err := c.get(ctx, "/api/review/product/"+productID, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) CreateReview(ctx context.Context, productID string, review Review) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/review/product/"+productID, review)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ─────────────────────── stores & memberships ───────────────────

func (c *Client) StoreLocations(ctx context.Context, userID string) ([]StoreLocation, error) {
	locs := []StoreLocation{}
	if _, err := c.get(ctx, "/api/store/locations/"+userID, &locs); err != nil {
		return nil, err
	}
	return locs, nil
}

func (c *Client) ListMemberships(ctx context.Context) ([]Membership, error) {
	plans := []Membership{}
	if _, err := c.get(ctx, "/api/memberships", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) CreatePayPalOrder(ctx context.Context, req PayPalOrderRequest) (*PayPalOrder, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/paypal/create-order", req)
	if err != nil {
		return nil, err
	}
	order := &PayPalOrder{}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, order); err != nil {
			return nil, fmt.Errorf("decode paypal order: %w", err)
		}
	}
	return order, nil
}

func (c *Client) PurchaseCOD(ctx context.Context, req PurchaseRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/membership/purchase/cod", req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) PurchaseDirectBank(ctx context.Context, req PurchaseRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/membership/purchase/direct-bank", req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
