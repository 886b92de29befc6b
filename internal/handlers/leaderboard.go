package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) GlobalLeaderboard(c *gin.Context) {
	entries, err := h.leaderboards.Global(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (h HandlerSet) FriendLeaderboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	entries, err := h.leaderboards.Friends(c.Request.Context(), user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
