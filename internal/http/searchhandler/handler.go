package searchhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefrontgo/internal/services/search"
)

type Handler struct {
	svc search.ISearchService
}

func New(svc search.ISearchService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/search/:session", h.get)
	r.PUT("/search/:session", h.set)
	r.DELETE("/search/:session", h.clear)
}

// @Summary		Resolve the search selection
// @Description	Returns the stored selection, with country/state/query URL params
// @Description	taking precedence and being written back when they change it.
// @Tags			Search
// @Param			session	path		string	true	"Session ID"
// @Param			country	query		string	false	"Country override"
// @Param			state	query		string	false	"State override"
// @Param			query	query		string	false	"Search query override"
// @Success		200		{object}	search.Selection
// @Router			/search/{session} [get]
func (h *Handler) get(c *gin.Context) {
	sel, err := h.svc.Resolve(c.Request.Context(), c.Param("session"), search.Params{
		Country: c.Query("country"),
		State:   c.Query("state"),
		Query:   c.Query("query"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, sel)
}

// @Summary		Store the search selection
// @Tags			Search
// @Accept			json
// @Param			session	path	string				true	"Session ID"
// @Param			request	body	SetSelectionBody	true	"Selection"
// @Success		204
// @Router			/search/{session} [put]
func (h *Handler) set(c *gin.Context) {
	var body SetSelectionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid search selection."})
		return
	}
	sel := search.Selection{Query: body.Query}
	if body.Country != "" && body.State != "" {
		sel.Location = &search.Location{Country: body.Country, State: body.State}
	}
	if err := h.svc.Set(c.Request.Context(), c.Param("session"), sel); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Clear the search selection
// @Tags			Search
// @Param			session	path	string	true	"Session ID"
// @Success		204
// @Router			/search/{session} [delete]
func (h *Handler) clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), c.Param("session")); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong"})
		return
	}
	c.Status(http.StatusNoContent)
}
