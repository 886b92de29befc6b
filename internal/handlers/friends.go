package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type friendResponse struct {
	UserID        string  `json:"userId"`
	DisplayName   string  `json:"displayName"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	TotalEarnings float64 `json:"totalEarnings"`
	Currency      string  `json:"currency"`
	CurrentStreak int     `json:"currentStreak"`
}

func (h HandlerSet) ListFriends(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	friends, err := h.friendSvc.ListFriends(c.Request.Context(), user)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]friendResponse, 0, len(friends))
	for _, f := range friends {
		resp = append(resp, friendResponse{
			UserID:        f.ID,
			DisplayName:   f.DisplayName,
			AvatarURL:     f.AvatarURL,
			TotalEarnings: f.TotalEarnings,
			Currency:      f.Currency,
			CurrentStreak: f.CurrentStreak,
		})
	}
	c.JSON(http.StatusOK, gin.H{"friends": resp})
}

type friendRequestResponse struct {
	ID        string    `json:"id"`
	FromName  string    `json:"fromName"`
	Avatar    *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h HandlerSet) ListFriendRequests(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	pending, err := h.friendSvc.ListPending(c.Request.Context(), user)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]friendRequestResponse, 0, len(pending))
	for _, p := range pending {
		resp = append(resp, friendRequestResponse{
			ID:        p.Request.ID,
			FromName:  p.FromName,
			Avatar:    p.Avatar,
			CreatedAt: p.Request.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"requests": resp})
}

type sendFriendRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
}

func (h HandlerSet) SendFriendRequest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req sendFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.friendSvc.Send(c.Request.Context(), user, req.DisplayName)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"requestId": created.ID})
}

func (h HandlerSet) AcceptFriendRequest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.friendSvc.Accept(c.Request.Context(), user, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) DeclineFriendRequest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.friendSvc.Decline(c.Request.Context(), user, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
