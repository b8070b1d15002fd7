package http_server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files

	"storefrontgo/internal/config"
	"storefrontgo/internal/http/auctionhandler"
	"storefrontgo/internal/http/authhandler"
	"storefrontgo/internal/http/membershiphandler"
	"storefrontgo/internal/http/mw"
	"storefrontgo/internal/http/registrationhandler"
	"storefrontgo/internal/http/reviewhandler"
	"storefrontgo/internal/http/searchhandler"
	"storefrontgo/internal/services/auction"
	"storefrontgo/internal/services/registration"
	"storefrontgo/internal/services/search"
	"storefrontgo/internal/upstream"
	"storefrontgo/internal/ws"
)

type Services struct {
	Auction      auction.IAuctionService
	Registration registration.IRegistrationService
	Search       search.ISearchService
	Backend      *upstream.Client
}

type httpServer struct {
	cfg   *config.Config
	srv   http.Server
	ln    net.Listener
	svcs  Services
	wsSrv *ws.WsServer
	ctx   context.Context
}

func NewHttpServer(ctx context.Context, cfg *config.Config, wsSrv *ws.WsServer, svcs Services) *httpServer {
	return &httpServer{
		cfg:   cfg,
		wsSrv: wsSrv,
		svcs:  svcs,
		ctx:   ctx,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.cfg.HttpServerPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	routerEngine.Use(mw.RateLimiter(rate.Limit(h.cfg.RateLimitPerSec), h.cfg.RateLimitBurst))

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// Backend proxy reads get a short shared response cache; everything
	// session- or bid-shaped stays uncached.
	respCache := cache.New(h.cfg.ResponseCacheTTL, 2*h.cfg.ResponseCacheTTL)
	cached := routerEngine.Group("/", mw.Cache(respCache, h.cfg.ResponseCacheTTL))
	reviewhandler.New(h.svcs.Backend).Register(cached)
	membershiphandler.New(h.svcs.Backend).Register(cached)

	authhandler.New(h.svcs.Backend).Register(routerEngine)
	auctionhandler.New(h.svcs.Auction).Register(routerEngine)
	registrationhandler.New(h.svcs.Registration).Register(routerEngine)
	searchhandler.New(h.svcs.Search).Register(routerEngine)

	h.srv = http.Server{
		Handler: routerEngine,
	}

	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err
	}

	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
		log.Println("shutdown timeout (10 s)")
	}

	return nil
}
