package authhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefrontgo/internal/upstream"
)

type Handler struct {
	backend *upstream.Client
}

func New(backend *upstream.Client) *Handler { return &Handler{backend: backend} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/auth/login", h.login)
}

// @Summary		Log in
// @Description	Forwards credentials to the backend and returns its token. Backend
// @Description	failures are translated into user-facing messages.
// @Tags			Auth
// @Accept			json
// @Param			request	body		LoginBody	true	"Credentials"
// @Success		200		{object}	LoginResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		401		{object}	ErrorResponse
// @Router			/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please enter a valid email and password."})
		return
	}

	res, err := h.backend.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: upstream.FriendlyLoginMessage(err)})
		return
	}

	resp := LoginResponse{Token: res.Token}
	if ud, ok := res.UserData.(map[string]any); ok {
		resp.Name, _ = ud["fullName"].(string)
		resp.Email, _ = ud["email"].(string)
	}
	c.JSON(http.StatusOK, resp)
}
