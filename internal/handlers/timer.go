package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syntherra/PooDough/internal/service"
)

func (h HandlerSet) StartTimer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	snapshot, err := h.manager.Start(user.ID, user.Salary)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timer": snapshot})
}

type sessionResponse struct {
	ID           string  `json:"id"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	Duration     int64   `json:"duration"`
	Earnings     float64 `json:"earnings"`
	Currency     string  `json:"currency"`
	WasWorkHours bool    `json:"wasWorkHours"`
	CreatedAt    string  `json:"createdAt"`
}

// StopTimer finalizes the live run and records it. A failed aggregate update
// still returns the recorded session; the client's own stats simply lag one
// session behind until the next one lands.
func (h HandlerSet) StopTimer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	beforeTotal := user.TotalEarnings

	result, err := h.manager.Stop(user.ID, user.Salary)
	if err != nil {
		fail(c, err)
		return
	}

	session, err := h.recorder.Record(c.Request.Context(), user, result)
	if err != nil && !errors.Is(err, service.ErrAggregatesStale) {
		fail(c, err)
		return
	}

	if err == nil {
		afterTotal := beforeTotal + session.Earnings
		h.leaderboards.NotifyOvertakes(c.Request.Context(), user, beforeTotal, afterTotal)
	}

	c.JSON(http.StatusOK, gin.H{"session": toSessionResponse(session)})
}

func (h HandlerSet) TimerStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"timer": h.manager.Snapshot(user.ID)})
}
