package membershiphandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefrontgo/internal/upstream"
)

type Handler struct {
	backend *upstream.Client
}

func New(backend *upstream.Client) *Handler { return &Handler{backend: backend} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/memberships", h.list)
	r.GET("/stores", h.stores)
	r.POST("/memberships/paypal-order", h.payPalOrder)
	r.POST("/memberships/purchase/cod", h.purchaseCOD)
	r.POST("/memberships/purchase/direct-bank", h.purchaseDirectBank)
}

// @Summary		List membership plans
// @Tags			Memberships
// @Success		200	{array}		upstream.Membership
// @Failure		502	{object}	ErrorResponse
// @Router			/memberships [get]
func (h *Handler) list(c *gin.Context) {
	plans, err := h.backend.ListMemberships(c.Request.Context())
	if err != nil {
		status, msg := upstreamStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// @Summary		List the caller's store locations
// @Tags			Memberships
// @Param			user_id	query		string	true	"User ID"
// @Success		200		{array}		upstream.StoreLocation
// @Failure		502		{object}	ErrorResponse
// @Router			/stores [get]
func (h *Handler) stores(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_id is required"})
		return
	}
	locs, err := h.backend.StoreLocations(c.Request.Context(), userID)
	if err != nil {
		status, msg := upstreamStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusOK, locs)
}

// @Summary		Create a PayPal order for a membership
// @Tags			Memberships
// @Accept			json
// @Param			request	body		PurchaseBody	true	"Purchase"
// @Success		201		{object}	upstream.PayPalOrder
// @Failure		502		{object}	ErrorResponse
// @Router			/memberships/paypal-order [post]
func (h *Handler) payPalOrder(c *gin.Context) {
	var body PurchaseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please choose a membership plan."})
		return
	}
	order, err := h.backend.CreatePayPalOrder(c.Request.Context(), upstream.PayPalOrderRequest{
		UserID:       body.UserID,
		MembershipID: body.MembershipID,
	})
	if err != nil {
		status, msg := upstreamStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// @Summary		Purchase a membership with cash on delivery
// @Tags			Memberships
// @Accept			json
// @Param			request	body		PurchaseBody	true	"Purchase"
// @Success		201		{object}	MessageResponse
// @Failure		502		{object}	ErrorResponse
// @Router			/memberships/purchase/cod [post]
func (h *Handler) purchaseCOD(c *gin.Context) {
	h.purchase(c, h.backend.PurchaseCOD)
}

// @Summary		Purchase a membership via direct bank transfer
// @Tags			Memberships
// @Accept			json
// @Param			request	body		PurchaseBody	true	"Purchase"
// @Success		201		{object}	MessageResponse
// @Failure		502		{object}	ErrorResponse
// @Router			/memberships/purchase/direct-bank [post]
func (h *Handler) purchaseDirectBank(c *gin.Context) {
	h.purchase(c, h.backend.PurchaseDirectBank)
}

func (h *Handler) purchase(c *gin.Context, call func(ctx context.Context, req upstream.PurchaseRequest) (string, error)) {
	var body PurchaseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please choose a membership plan."})
		return
	}
	msg, err := call(c.Request.Context(), upstream.PurchaseRequest{
		UserID:       body.UserID,
		MembershipID: body.MembershipID,
	})
	if err != nil {
		status, emsg := upstreamStatus(err)
		c.JSON(status, ErrorResponse{Error: emsg})
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: msg})
}

func upstreamStatus(err error) (int, string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Status, apiErr.Message
	}
	return http.StatusBadGateway, "Something went wrong"
}
