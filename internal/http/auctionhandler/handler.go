package auctionhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefrontgo/internal/services/auction"
	"storefrontgo/internal/upstream"
)

// genericBidFailure mirrors the storefront's catch-all bid toast.
const genericBidFailure = "An error occurred while placing your bid"

type Handler struct {
	svc auction.IAuctionService
}

func New(svc auction.IAuctionService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/auctions/:id", h.info)
	r.GET("/auctions/:id/bids", h.bids)
	r.GET("/auctions/:id/countdown", h.countdown)
	r.POST("/auctions/:id/bid", h.bid)
}

// @Summary		Get auction details
// @Description	Proxies the backend's auction payload, cached briefly.
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"	default(auc123)
// @Success		200	{object}	upstream.Auction
// @Failure		404	{object}	ErrorResponse
// @Router			/auctions/{id} [get]
func (h *Handler) info(c *gin.Context) {
	dto, err := h.svc.GetAuction(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, msg := mapUpstreamError(err, http.StatusNotFound, "Auction not found")
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		List bids for an auction
// @Description	Always re-fetched from the backend; the gateway never keeps a local bid list.
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"	default(auc123)
// @Success		200	{array}		upstream.Bid
// @Failure		502	{object}	ErrorResponse
// @Router			/auctions/{id}/bids [get]
func (h *Handler) bids(c *gin.Context) {
	bids, err := h.svc.ListBids(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, msg := mapUpstreamError(err, http.StatusBadGateway, "Something went wrong")
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusOK, bids)
}

// @Summary		Current countdown snapshot
// @Description	Remaining time in zero-padded D/H/M/S plus the explicit expired flag.
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"	default(auc123)
// @Success		200	{object}	countdown.Snapshot
// @Failure		502	{object}	ErrorResponse
// @Router			/auctions/{id}/countdown [get]
func (h *Handler) countdown(c *gin.Context) {
	snap, err := h.svc.Countdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, msg := mapUpstreamError(err, http.StatusBadGateway, "Something went wrong")
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary		Place a bid
// @Description	Validates and forwards one bid; duplicates in flight and ended auctions are rejected before any backend call.
// @Tags			Auctions
// @Param			id		path	string			true	"Auction ID"	default(auc123)
// @Param			body	body	PlaceBidBody	true	"Bid payload"
// @Success		200	{object}	BidResponse
// @Failure		400	{object}	ErrorResponse
// @Failure		409	{object}	ErrorResponse
// @Failure		410	{object}	ErrorResponse
// @Router			/auctions/{id}/bid [post]
func (h *Handler) bid(ginCtx *gin.Context) {
	var body PlaceBidBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please enter a valid bidding price."})
		return
	}

	msg, err := h.svc.PlaceBid(ginCtx.Request.Context(), body.UserID, ginCtx.Param("id"), body.BidValue)
	switch {
	case err == nil:
		ginCtx.JSON(http.StatusOK, BidResponse{Message: msg})
	case errors.Is(err, auction.ErrInvalidAmount):
		ginCtx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please enter a valid bidding price."})
	case errors.Is(err, auction.ErrAuctionExpired):
		ginCtx.JSON(http.StatusGone, ErrorResponse{Error: "Expired"})
	case errors.Is(err, auction.ErrBidInFlight):
		ginCtx.JSON(http.StatusConflict, ErrorResponse{Error: "Your previous bid is still being placed."})
	default:
		status, emsg := mapUpstreamError(err, http.StatusBadGateway, genericBidFailure)
		ginCtx.JSON(status, ErrorResponse{Error: emsg})
	}
}

// mapUpstreamError surfaces the backend's own message when it supplied one,
// and falls back to the given storefront message otherwise.
func mapUpstreamError(err error, fallbackStatus int, fallbackMsg string) (int, string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Status, apiErr.Message
		}
		return apiErr.Status, fallbackMsg
	}
	return fallbackStatus, fallbackMsg
}
