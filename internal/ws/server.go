package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefrontgo/internal/countdown"
	"storefrontgo/internal/services/auction"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 12 * time.Second
	pingPeriod = 3 * time.Second // must be < pongWait
)

type WsServer struct {
	hub        *Hub
	subMgr     *subscriptionManager
	router     *Router
	auctionSvc auction.IAuctionService
	upgrader   websocket.Upgrader
}

func NewWsServer(h *Hub, rdc *redis.Client, auctionSvc auction.IAuctionService,
	clock countdown.Clock) *WsServer {

	srv := &WsServer{
		hub:        h,
		subMgr:     newSubscriptionManager(rdc, h, auctionSvc, clock),
		router:     NewRouter(),
		auctionSvc: auctionSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 512,
			CheckOrigin:     func(*http.Request) bool { return true }, // dev-only
		},
	}
	srv.registerHandlers() // all WS endpoints configured here
	return srv
}

// AuctionExpired lets the expiry watcher push the terminal frame into every
// room on this instance.
func (s *WsServer) AuctionExpired(auctionID string) {
	s.hub.Broadcast(auctionID, marshalEnvelope("auctions/expired", ExpiredBody{AuctionID: auctionID}))
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	auctionID := ginCtx.Query("auction_id")
	userID := ginCtx.Query("user_id")
	if auctionID == "" || userID == "" {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "auction_id and user_id are required"})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(512)
	_ = rawConn.SetReadDeadline(time.Now().Add(pongWait))
	rawConn.SetPongHandler(func(string) error {
		return rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// ─────────────────── Client joined ────────────────────────
	wsConn := &clientConn{rawConn: rawConn}
	s.hub.Join(auctionID, wsConn)
	s.subMgr.Subscribe(auctionID) // may be a no-op (already subscribed)

	if err := s.pushInitialSnapshot(ginCtx.Request.Context(), auctionID, wsConn); err != nil {
		zap.L().Warn("ws.snapshot", zap.Error(err))
	}

	go s.reader(auctionID, userID, wsConn)
	go s.pinger(wsConn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// auctions/bid -----------------------------------------------------------
	Register(
		s.router,
		"auctions/bid",
		func(ctx context.Context, cc *ConnContext, req BidRequest) (BidAck, error) {
			msg, err := s.auctionSvc.PlaceBid(ctx, cc.UserID, cc.AuctionID, req.Amount)
			if err != nil {
				return BidAck{}, err
			}
			return BidAck{Message: msg}, nil
		},
	)
}

func (s *WsServer) pushInitialSnapshot(ctx context.Context, id string, conn *clientConn) error {
	ctx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	dto, err := s.auctionSvc.GetAuction(ctx, id)
	if err != nil {
		return err
	}
	snap, err := s.auctionSvc.Countdown(ctx, id)
	if err != nil {
		return err
	}
	return conn.writeJSON(Envelope{Event: "auctions/snapshot"}.withBody(SnapshotBody{
		AuctionID: id,
		Title:     dto.Title,
		StartsAt:  dto.StartsAt.Unix(),
		EndsAt:    dto.EndsAt.Unix(),
		Countdown: snap,
	}))
}

func (s *WsServer) reader(auctionID, userID string, conn *clientConn) {
	defer func() {
		s.hub.Leave(auctionID, conn)
		s.subMgr.Unsubscribe(auctionID)
	}()

	cc := &ConnContext{AuctionID: auctionID, UserID: userID}

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1900*time.Millisecond)
		res, err := s.router.dispatch(ctx, cc, env)
		cancel()

		// ---- error -> {"event":"error", "body":{...}} ---------------
		if err != nil {
			_ = conn.writeJSON(map[string]any{
				"event": "error",
				"body":  ErrorBody{Error: err.Error()},
			})
			continue
		}

		// ---- success -> {"event":"<evt>-ack", "body":{...}} --------
		reply := map[string]any{"event": env.Event + "-ack"}
		if res != nil {
			reply["body"] = res
		}
		_ = conn.writeJSON(reply)
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			_ = conn.rawConn.Close()
			return
		}
	}
}

// withBody attaches a marshalled body; a marshalling failure downgrades to a
// bodyless envelope rather than dropping the frame.
func (e Envelope) withBody(v any) Envelope {
	raw, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("ws.marshal_body", zap.Error(err))
		return e
	}
	e.Body = raw
	return e
}
