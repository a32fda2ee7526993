package handlers

import (
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"checkpoint-backend/models"
	"checkpoint-backend/store"
)

type StatsHandler struct {
	store store.Store
}

func NewStatsHandler(s store.Store) *StatsHandler {
	return &StatsHandler{store: s}
}

// UserStats returns the caller's hosted/participated/attended counts.
func (h *StatsHandler) UserStats(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.store.UserStats(c, userID)
	if err != nil {
		log.Printf("Failed to load stats for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Leaderboard ranks every user by attended*2 + hosted, descending. The sort
// is stable over the store's row order, so ties keep account creation order.
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	rows, err := h.store.Leaderboard(c)
	if err != nil {
		log.Printf("Leaderboard query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.LeaderboardEntry{
			ID:           row.ID,
			Name:         row.Name,
			Email:        row.Email,
			Score:        row.Attended*2 + row.Hosted,
			Attended:     row.Attended,
			Participated: row.Participated,
			Hosted:       row.Hosted,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
