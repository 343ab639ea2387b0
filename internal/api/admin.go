package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frontiertower/portal-backend/internal/auth"
	"github.com/frontiertower/portal-backend/internal/portal"
)

// AdminLoginRequest is the admin login payload.
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin exchanges the admin password for a bearer token.
func (h *Handler) AdminLogin(c *gin.Context) {
	if h.adminHash == "" || h.tokens == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin API not configured"})
		return
	}

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !auth.CheckPassword(h.adminHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	token, err := h.tokens.Issue("admin")
	if err != nil {
		h.logger.Error("failed to issue admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// AdminStats returns registration totals for the dashboard.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.directory.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_members":          stats.TotalMembers,
		"total_guests":           stats.TotalGuests,
		"total_event_attendees":  stats.TotalEventAttendees,
		"active_events":          stats.ActiveEvents,
		"recent_members":         stats.RecentMembers,
		"recent_guests":          stats.RecentGuests,
		"recent_event_attendees": stats.RecentEventAttendees,
	})
}

// ListFloors returns every floor for the admin screens.
func (h *Handler) ListFloors(c *gin.Context) {
	floors, err := h.directory.ListFloors(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list floors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list floors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"floors": floors})
}

// CreateFloorRequest is the floor creation payload.
type CreateFloorRequest struct {
	Number int    `json:"number" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

// CreateFloor adds a floor to the registration form.
func (h *Handler) CreateFloor(c *gin.Context) {
	var req CreateFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.directory.CreateFloor(c.Request.Context(), req.Number, req.Name)
	if err != nil {
		h.logger.Error("failed to create floor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create floor"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// SetActiveRequest toggles visibility of a floor or event.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetFloorActive toggles a floor on the registration form.
func (h *Handler) SetFloorActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.directory.SetFloorActive(c.Request.Context(), id, *req.Active); err != nil {
		h.logger.Error("failed to update floor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update floor"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteFloor removes a floor.
func (h *Handler) DeleteFloor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.directory.DeleteFloor(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete floor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete floor"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEvents returns every event for the admin screens.
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.directory.ListEvents(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CreateEventRequest is the event creation payload.
type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateEvent adds an event to the registration form.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.directory.CreateEvent(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.logger.Error("failed to create event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// SetEventActive toggles an event on the registration form.
func (h *Handler) SetEventActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.directory.SetEventActive(c.Request.Context(), id, *req.Active); err != nil {
		h.logger.Error("failed to update event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteEvent removes an event.
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.directory.DeleteEvent(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	c.Status(http.StatusNoContent)
}

// KickDevice revokes network access for a device. The MAC is normalized
// first so any textual form works.
func (h *Handler) KickDevice(c *gin.Context) {
	mac, err := portal.NormalizeMAC(c.Param("mac"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid MAC address"})
		return
	}

	ctx := c.Request.Context()
	sess := h.ctrl.NewSession()
	defer sess.Close(ctx)

	if err := sess.Authenticate(ctx); err != nil {
		h.logger.Error("controller login failed", zap.String("mac", mac), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "controller login failed"})
		return
	}
	if err := sess.DeauthorizeDevice(ctx, mac); err != nil {
		h.logger.Error("failed to deauthorize device", zap.String("mac", mac), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to deauthorize device"})
		return
	}

	h.logger.Info("device deauthorized", zap.String("mac", mac))
	c.JSON(http.StatusOK, gin.H{"mac": mac, "deauthorized": true})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
