package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"checkpoint-backend/models"
	"checkpoint-backend/store"
)

type ParticipationHandler struct {
	store store.Store
}

func NewParticipationHandler(s store.Store) *ParticipationHandler {
	return &ParticipationHandler{store: s}
}

// Join records the caller as a participant of the event, not yet attended.
func (h *ParticipationHandler) Join(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.JoinRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.GetEventByID(c, req.EventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	participation, err := h.store.CreateParticipation(c, req.EventID, userID)
	if err != nil {
		log.Printf("Failed to create participation: event=%d, user=%s: %v", req.EventID, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create participation"})
		return
	}

	c.JSON(http.StatusOK, participation)
}

// Attend marks the caller's participation as attended, resolved by the
// event's token and only inside [start_time, end_time].
func (h *ParticipationHandler) Attend(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.AttendRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.store.GetEventByToken(c, req.EventToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	now := time.Now()
	if now.Before(event.StartTime) || now.After(event.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event is not active"})
		return
	}

	participation, err := h.store.MarkAttended(c, event.ID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participation not found"})
			return
		}
		log.Printf("Failed to mark attendance: event=%d, user=%s: %v", event.ID, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark attendance"})
		return
	}

	c.JSON(http.StatusOK, participation)
}
