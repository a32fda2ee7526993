package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"checkpoint-backend/models"
	"checkpoint-backend/store"
)

// defaultNearbyRadius is the search radius in meters when the query does not
// supply one.
const defaultNearbyRadius = 10000

type EventHandler struct {
	store store.Store
}

func NewEventHandler(s store.Store) *EventHandler {
	return &EventHandler{store: s}
}

// newEventToken returns the 128-bit hex attendance secret for a new event.
func newEventToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	hostID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := newEventToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate event token"})
		return
	}

	event, err := h.store.CreateEvent(c, &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Longitude:   *req.Longitude,
		Latitude:    *req.Latitude,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		EventToken:  token,
		HostID:      hostID,
	})
	if err != nil {
		log.Printf("Failed to create event %q: %v", req.Title, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// NearbyEvents delegates the radius search and distance ordering to the
// store's geospatial procedure.
func (h *EventHandler) NearbyEvents(c *gin.Context) {
	longitude, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid longitude"})
		return
	}
	latitude, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid latitude"})
		return
	}

	radius := float64(defaultNearbyRadius)
	if v := c.Query("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid radius"})
			return
		}
	}

	events, err := h.store.NearbyEvents(c, longitude, latitude, radius)
	if err != nil {
		log.Printf("Nearby events query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.store.GetEventByID(c, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent applies a partial update. A missing event and an event owned by
// someone else produce the same 404 so existence never leaks.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	requesterID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.store.UpdateEvent(c, id, requesterID, store.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Longitude:   req.Longitude,
		Latitude:    req.Latitude,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found or unauthorized"})
			return
		}
		log.Printf("Failed to update event %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	requesterID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.store.DeleteEvent(c, id, requesterID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found or unauthorized"})
			return
		}
		log.Printf("Failed to delete event %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// ListEvents is the public read-only listing of all events.
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.store.ListEvents(c)
	if err != nil {
		log.Printf("Failed to list events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	c.JSON(http.StatusOK, events)
}
