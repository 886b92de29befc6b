package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syntherra/PooDough/internal/history"
	"github.com/syntherra/PooDough/internal/models"
)

func toSessionResponse(s models.Session) sessionResponse {
	return sessionResponse{
		ID:           s.ID,
		StartTime:    s.StartTime.Format(time.RFC3339),
		EndTime:      s.EndTime.Format(time.RFC3339),
		Duration:     s.Duration,
		Earnings:     s.Earnings,
		Currency:     s.Currency,
		WasWorkHours: s.WasWorkHours,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}

func (h HandlerSet) ListSessions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, toSessionResponse(s))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": resp})
}

func (h HandlerSet) SessionStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	window, err := history.ParseWindow(c.DefaultQuery("window", "all"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessions, err := h.sessions.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	stats := history.Aggregate(sessions, window, time.Now())
	c.JSON(http.StatusOK, gin.H{"stats": stats, "window": string(window)})
}

func (h HandlerSet) DeleteAllSessions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.recorder.DeleteAllSessions(c.Request.Context(), user); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
