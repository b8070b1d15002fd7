package reviewhandler

import (
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
	r.GET("/products/:id/reviews", h.list)
	r.POST("/products/:id/reviews", h.create)
}

// @Summary		List product reviews
// @Tags			Reviews
// @Param			id	path		string	true	"Product ID"
// @Success		200	{array}		upstream.Review
// @Failure		502	{object}	ErrorResponse
// @Router			/products/{id}/reviews [get]
func (h *Handler) list(c *gin.Context) {
	reviews, err := h.backend.ListProductReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, msg := upstreamStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// @Summary		Create a product review
// @Tags			Reviews
// @Accept			json
// @Param			id		path		string				true	"Product ID"
// @Param			request	body		CreateReviewBody	true	"Review"
// @Success		201		{object}	MessageResponse
// @Failure		400		{object}	ErrorResponse
// @Router			/products/{id}/reviews [post]
func (h *Handler) create(c *gin.Context) {
	var body CreateReviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please rate the product and leave a comment."})
		return
	}
	msg, err := h.backend.CreateReview(c.Request.Context(), c.Param("id"), upstream.Review{
		UserID:  body.UserID,
		Rating:  body.Rating,
		Comment: body.Comment,
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
