package registrationhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefrontgo/internal/services/registration"
)

type Handler struct {
	svc registration.IRegistrationService
}

func New(svc registration.IRegistrationService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/registration/:session", h.get)
	r.PUT("/registration/:session/profile", h.setProfile)
	r.POST("/registration/:session/countries", h.selectCountry)
	r.DELETE("/registration/:session/countries/:country", h.removeCountry)
	r.PUT("/registration/:session/entries/:entry", h.setEntry)
	r.PUT("/registration/:session/entries/:entry/states", h.setStates)
	r.POST("/registration/:session/entries/:entry/licenses", h.addLicenseField)
	r.PUT("/registration/:session/entries/:entry/licenses", h.setLicense)
	r.GET("/registration/:session/overview", h.overview)
	r.POST("/registration/:session/submit", h.submit)
	r.DELETE("/registration/:session", h.reset)
}

// @Summary		Get wizard state
// @Tags			Registration
// @Param			session	path		string	true	"Session ID"
// @Success		200		{object}	registration.Wizard
// @Router			/registration/{session} [get]
func (h *Handler) get(c *gin.Context) {
	w, err := h.svc.Get(c.Request.Context(), c.Param("session"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// @Summary		Set profile fields
// @Tags			Registration
// @Accept			json
// @Param			session	path		string		true	"Session ID"
// @Param			request	body		ProfileBody	true	"Profile"
// @Success		200		{object}	registration.Wizard
// @Failure		400		{object}	ErrorResponse
// @Router			/registration/{session}/profile [put]
func (h *Handler) setProfile(c *gin.Context) {
	var body ProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please fill in all required fields."})
		return
	}
	w, err := h.svc.SetProfile(c.Request.Context(), c.Param("session"), registration.Profile{
		Industries:   body.Industries,
		Professions:  body.Professions,
		Email:        body.Email,
		FullName:     body.FullName,
		BusinessName: body.BusinessName,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// @Summary		Select a country
// @Description	Creates a business entry for the country and makes it the cursor.
// @Description	Selecting more than twelve countries is rejected outright.
// @Tags			Registration
// @Accept			json
// @Param			session	path		string				true	"Session ID"
// @Param			request	body		SelectCountryBody	true	"Country"
// @Success		201		{object}	registration.BusinessEntry
// @Failure		409		{object}	ErrorResponse
// @Router			/registration/{session}/countries [post]
func (h *Handler) selectCountry(c *gin.Context) {
	var body SelectCountryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please choose a country."})
		return
	}
	entry, err := h.svc.SelectCountry(c.Request.Context(), c.Param("session"), body.Country)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// @Summary		Deselect a country
// @Tags			Registration
// @Param			session	path		string	true	"Session ID"
// @Param			country	path		string	true	"Country name"
// @Success		200		{object}	registration.Wizard
// @Router			/registration/{session}/countries/{country} [delete]
func (h *Handler) removeCountry(c *gin.Context) {
	w, err := h.svc.RemoveCountry(c.Request.Context(), c.Param("session"), c.Param("country"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// @Summary		Move the editing cursor to an entry
// @Tags			Registration
// @Param			session	path	string	true	"Session ID"
// @Param			entry	path	string	true	"Entry ID"
// @Success		204
// @Failure		404	{object}	ErrorResponse
// @Router			/registration/{session}/entries/{entry} [put]
func (h *Handler) setEntry(c *gin.Context) {
	if err := h.svc.SetCurrentEntry(c.Request.Context(), c.Param("session"), c.Param("entry")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Set the states for an entry
// @Tags			Registration
// @Accept			json
// @Param			session	path	string		true	"Session ID"
// @Param			entry	path	string		true	"Entry ID"
// @Param			request	body	StatesBody	true	"States"
// @Success		204
// @Failure		404	{object}	ErrorResponse
// @Router			/registration/{session}/entries/{entry}/states [put]
func (h *Handler) setStates(c *gin.Context) {
	var body StatesBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please choose at least one state."})
		return
	}
	if err := h.svc.SetStates(c.Request.Context(), c.Param("session"), c.Param("entry"), body.States); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Append a license number field
// @Tags			Registration
// @Accept			json
// @Param			session	path	string				true	"Session ID"
// @Param			entry	path	string				true	"Entry ID"
// @Param			request	body	LicenseFieldBody	true	"License kind"
// @Success		204
// @Failure		404	{object}	ErrorResponse
// @Router			/registration/{session}/entries/{entry}/licenses [post]
func (h *Handler) addLicenseField(c *gin.Context) {
	var body LicenseFieldBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown license type."})
		return
	}
	kind := registration.LicenseKind(body.Kind)
	if err := h.svc.AddLicenseField(c.Request.Context(), c.Param("session"), c.Param("entry"), kind); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Set one license number
// @Description	Writes the value at the given index of the entry's license list.
// @Tags			Registration
// @Accept			json
// @Param			session	path	string				true	"Session ID"
// @Param			entry	path	string				true	"Entry ID"
// @Param			request	body	LicenseValueBody	true	"License value"
// @Success		204
// @Failure		400	{object}	ErrorResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/registration/{session}/entries/{entry}/licenses [put]
func (h *Handler) setLicense(c *gin.Context) {
	var body LicenseValueBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown license type."})
		return
	}
	kind := registration.LicenseKind(body.Kind)
	err := h.svc.SetLicense(c.Request.Context(), c.Param("session"), c.Param("entry"), kind, body.Index, body.Value)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Review before submission
// @Description	Returns the wizard for the final review screen. If required fields
// @Description	are missing the session is wiped and the caller must restart.
// @Tags			Registration
// @Param			session	path		string	true	"Session ID"
// @Success		200		{object}	registration.Wizard
// @Failure		409		{object}	OverviewErrorResponse
// @Router			/registration/{session}/overview [get]
func (h *Handler) overview(c *gin.Context) {
	w, err := h.svc.Overview(c.Request.Context(), c.Param("session"))
	if err != nil {
		if errors.Is(err, registration.ErrIncompleteProfile) {
			c.JSON(http.StatusConflict, OverviewErrorResponse{
				Error: "Your registration session is incomplete. Please start over.",
				Reset: true,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// @Summary		Submit the registration
// @Tags			Registration
// @Accept			json
// @Param			session	path		string		true	"Session ID"
// @Param			request	body		SubmitBody	true	"Password"
// @Success		201		{object}	SubmitResponse
// @Failure		409		{object}	ErrorResponse
// @Router			/registration/{session}/submit [post]
func (h *Handler) submit(c *gin.Context) {
	var body SubmitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Password must be at least 6 characters."})
		return
	}
	msg, err := h.svc.Submit(c.Request.Context(), c.Param("session"), body.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SubmitResponse{Message: msg})
}

// @Summary		Abandon the wizard
// @Tags			Registration
// @Param			session	path	string	true	"Session ID"
// @Success		204
// @Router			/registration/{session} [delete]
func (h *Handler) reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context(), c.Param("session")); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, registration.ErrCountryLimit):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "You can select up to twelve countries."})
	case errors.Is(err, registration.ErrDuplicateCountry):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "That country is already selected."})
	case errors.Is(err, registration.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Business entry not found."})
	case errors.Is(err, registration.ErrUnknownLicense):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown license type."})
	case errors.Is(err, registration.ErrLicenseIndex):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "License field does not exist."})
	case errors.Is(err, registration.ErrIncompleteProfile):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Your registration session is incomplete. Please start over."})
	default:
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Something went wrong"})
	}
}
