// Package api exposes the portal HTTP surface: the authorization
// submission, form lookups, health, metrics and the admin API.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frontiertower/portal-backend/internal/auth"
	"github.com/frontiertower/portal-backend/internal/portal"
	"github.com/frontiertower/portal-backend/internal/store"
	"github.com/frontiertower/portal-backend/internal/unifi"
)

// Authorizer runs the end-to-end authorization workflow.
type Authorizer interface {
	Authorize(ctx context.Context, req portal.AuthRequest) (portal.Outcome, error)
}

// Handler contains all HTTP handlers for the portal.
type Handler struct {
	authorizer Authorizer
	directory  store.Directory
	ctrl       unifi.Controller
	tokens     *auth.TokenService
	adminHash  string // bcrypt hash of the admin password; empty disables admin login
	logger     *zap.Logger
}

// NewHandler creates the portal HTTP handler set.
func NewHandler(
	authorizer Authorizer,
	directory store.Directory,
	ctrl unifi.Controller,
	tokens *auth.TokenService,
	adminHash string,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		authorizer: authorizer,
		directory:  directory,
		ctrl:       ctrl,
		tokens:     tokens,
		adminHash:  adminHash,
		logger:     logger,
	}
}

type authorizeForm struct {
	Role        string `form:"role"`
	Email       string `form:"email"`
	Name        string `form:"name"`
	MAC         string `form:"mac"`
	IP          string `form:"ip"`
	FloorID     int64  `form:"floor_id"`
	EventID     int64  `form:"event_id"`
	Terms       string `form:"terms"`
	RedirectURL string `form:"redirect_url"`
}

// Authorize handles the portal form submission. Success redirects the
// device to its destination; failures return the full error list so the
// form can show every problem at once.
func (h *Handler) Authorize(c *gin.Context) {
	var form authorizeForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  []string{"invalid form submission"},
		})
		return
	}

	req := portal.AuthRequest{
		Role:        portal.Role(form.Role),
		Email:       form.Email,
		Name:        form.Name,
		MAC:         form.MAC,
		IP:          form.IP,
		FloorID:     form.FloorID,
		EventID:     form.EventID,
		Consent:     form.Terms != "",
		RedirectURL: form.RedirectURL,
	}

	outcome, err := h.authorizer.Authorize(c.Request.Context(), req)
	if err != nil {
		h.writeAuthorizeError(c, err)
		return
	}

	c.Redirect(http.StatusFound, outcome.RedirectURL)
}

func (h *Handler) writeAuthorizeError(c *gin.Context, err error) {
	var (
		vErr *portal.ValidationError
		mErr *portal.MalformedAddressError
		sErr *portal.StorageError
	)
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": vErr.Reasons})
	case errors.As(err, &mErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  []string{"device MAC address is not valid"},
		})
	case errors.As(err, &sErr):
		h.logger.Error("registration write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"errors":  []string{"temporary problem saving your registration, please try again"},
		})
	default:
		h.logger.Error("authorization failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"errors":  []string{"something went wrong, please try again"},
		})
	}
}

// PortalOptions returns the active floors and events the registration
// form offers.
func (h *Handler) PortalOptions(c *gin.Context) {
	floors, err := h.directory.ListActiveFloors(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list floors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load options"})
		return
	}
	events, err := h.directory.ListActiveEvents(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load options"})
		return
	}

	type floorOption struct {
		ID     int64  `json:"id"`
		Number int    `json:"number"`
		Name   string `json:"name"`
	}
	type eventOption struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	floorOptions := make([]floorOption, 0, len(floors))
	for _, f := range floors {
		floorOptions = append(floorOptions, floorOption{ID: f.ID, Number: f.Number, Name: f.Name})
	}
	eventOptions := make([]eventOption, 0, len(events))
	for _, e := range events {
		eventOptions = append(eventOptions, eventOption{ID: e.ID, Name: e.Name, Description: e.Description})
	}

	c.JSON(http.StatusOK, gin.H{
		"floors": floorOptions,
		"events": eventOptions,
	})
}

// Health returns the service health status.
func (h *Handler) Health(c *gin.Context) {
	_, controllerConfigured := h.ctrl.(*unifi.Client)
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"controller": controllerConfigured,
	})
}
