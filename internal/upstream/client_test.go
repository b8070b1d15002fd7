package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestCreateBid_ForwardsPayloadAndReturnsMessage(t *testing.T) {
	var got BidRequest
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/user/bid/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"status": true, "message": "Bid placed successfully"})
	})

	msg, err := c.CreateBid(context.Background(), BidRequest{UserID: "u1", AuctionID: "a1", BidValue: 42.5})
	require.NoError(t, err)
	assert.Equal(t, "Bid placed successfully", msg)
	assert.Equal(t, BidRequest{UserID: "u1", AuctionID: "a1", BidValue: 42.5}, got)
}

func TestCreateBid_SurfacesBackendMessageOnFailure(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "Bid must be higher than current bid"})
	})

	_, err := c.CreateBid(context.Background(), BidRequest{UserID: "u1", AuctionID: "a1", BidValue: 1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Bid must be higher than current bid", apiErr.Message)
}

func TestGetAuction_DecodesDataEnvelope(t *testing.T) {
	ends := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auction/a9", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"_id":                 "a9",
				"title":               "Vintage grinder",
				"startingDateAndTime": ends.Add(-time.Hour).Format(time.RFC3339),
				"endingDateAndTime":   ends.Format(time.RFC3339),
			},
		})
	})

	a, err := c.GetAuction(context.Background(), "a9")
	require.NoError(t, err)
	assert.Equal(t, "Vintage grinder", a.Title)
	assert.True(t, a.EndsAt.Equal(ends))
}

func TestLogin_Taxonomy(t *testing.T) {
	cases := []struct {
		backendMsg string
		want       string
	}{
		{"Wrong password", "The password you entered is incorrect."},
		{"No user found", "Please check your email or Sign Up."},
		{"Access denied. No verified license found.", "Your licence is under verification."},
		{"Something odd happened", "Something odd happened"},
	}
	for _, tc := range cases {
		t.Run(tc.backendMsg, func(t *testing.T) {
			c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{"status": false, "message": tc.backendMsg})
			})
			_, err := c.Login(context.Background(), "x@y.z", "pw")
			require.Error(t, err)
			assert.Equal(t, tc.want, FriendlyLoginMessage(err))
		})
	}
}

func TestLogin_TransportFailureMapsToGenericMessage(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.Login(context.Background(), "x@y.z", "pw")
	require.Error(t, err)
	assert.Equal(t, GenericLoginFailed, FriendlyLoginMessage(err))
}

func TestLogin_SuccessCarriesToken(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Welcome back",
			"data":    map[string]any{"token": "tok123", "userData": map[string]any{"id": "u1"}},
		})
	})
	res, err := c.Login(context.Background(), "x@y.z", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok123", res.Token)
	assert.Equal(t, "Welcome back", res.Message)
}

func TestWithToken_SendsBearerHeader(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"status": true, "data": []any{}})
	})

	_, err := c.WithToken("tok123").StoreLocations(context.Background(), "u1")
	require.NoError(t, err)
}

func TestStatusErrorWithBrokenBodyStillErrors(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream exploded</html>"))
	})
	_, err := c.ListMemberships(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}
