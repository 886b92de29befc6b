package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syntherra/PooDough/internal/models"
	"github.com/syntherra/PooDough/internal/security"
	"github.com/syntherra/PooDough/internal/service"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName"`
	DeviceName  string `json:"deviceName"`
}

type authResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	DeviceID     string       `json:"deviceId"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	DisplayName         string     `json:"displayName"`
	AvatarURL           *string    `json:"avatarUrl,omitempty"`
	Currency            string     `json:"currency"`
	Salary              float64    `json:"salary"`
	WorkDays            []string   `json:"workDays"`
	WorkStart           string     `json:"workStart,omitempty"`
	WorkEnd             string     `json:"workEnd,omitempty"`
	TotalSessions       int64      `json:"totalSessions"`
	TotalEarnings       float64    `json:"totalEarnings"`
	TotalDuration       int64      `json:"totalDuration"`
	LongestSession      int64      `json:"longestSession"`
	CurrentStreak       int        `json:"currentStreak"`
	BestStreak          int        `json:"bestStreak"`
	LastSessionAt       *time.Time `json:"lastSessionAt,omitempty"`
	OnboardingCompleted bool       `json:"onboardingCompleted"`
	IsPremium           bool       `json:"isPremium"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:                  user.ID,
		Email:               user.Email,
		DisplayName:         user.DisplayName,
		AvatarURL:           user.AvatarURL,
		Currency:            user.Currency,
		Salary:              user.Salary,
		WorkDays:            user.WorkDays,
		WorkStart:           user.WorkStart,
		WorkEnd:             user.WorkEnd,
		TotalSessions:       user.TotalSessions,
		TotalEarnings:       user.TotalEarnings,
		TotalDuration:       user.TotalDuration,
		LongestSession:      user.LongestSession,
		CurrentStreak:       user.CurrentStreak,
		BestStreak:          user.BestStreak,
		LastSessionAt:       user.LastSessionAt,
		OnboardingCompleted: user.OnboardingCompleted,
		IsPremium:           user.IsPremium,
	}
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		DeviceName:  req.DeviceName,
	})
	if err != nil {
		fail(c, err)
		return
	}

	sendAuthResponse(c, result)
}

type loginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		DeviceID:   req.DeviceID,
		DeviceName: req.DeviceName,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	sendAuthResponse(c, result)
}

type refreshRequest struct {
	UserID       string `json:"userId" binding:"required"`
	DeviceID     string `json:"deviceId" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h HandlerSet) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), service.RefreshInput{
		UserID:       req.UserID,
		DeviceID:     req.DeviceID,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	sendAuthResponse(c, result)
}

// Logout revokes the caller's own device session. Identity comes from the
// access claims, never from the request body.
func (h HandlerSet) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	claimsVal, _ := c.Get("access_claims")
	claims, ok := claimsVal.(security.AccessClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_claims"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), user.ID, claims.DeviceID); err != nil {
		fail(c, err)
		return
	}

	// A signed-out user should not keep a ticking run around.
	h.manager.Abort(user.ID)

	c.Status(http.StatusNoContent)
}

func sendAuthResponse(c *gin.Context, result service.AuthResult) {
	c.JSON(http.StatusOK, authResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		DeviceID:     result.DeviceID,
		User:         toUserResponse(result.User),
	})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type deviceResponse struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"deviceId"`
	DeviceName string    `json:"deviceName"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Current    bool      `json:"current"`
}

func (h HandlerSet) ListDevices(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	claimsVal, _ := c.Get("access_claims")
	claims, ok := claimsVal.(security.AccessClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_claims"})
		return
	}

	sessions, err := h.authSessions.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]deviceResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, deviceResponse{
			ID:         session.ID,
			DeviceID:   session.DeviceID,
			DeviceName: session.DeviceName,
			IPAddress:  session.IPAddress,
			UserAgent:  session.UserAgent,
			LastSeenAt: session.LastSeenAt,
			ExpiresAt:  session.ExpiresAt,
			Current:    session.ID == claims.SessionID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"devices": resp})
}

func (h HandlerSet) RevokeDevice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	deviceID := c.Param("deviceId")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deviceId required"})
		return
	}

	claimsVal, _ := c.Get("access_claims")
	claims, ok := claimsVal.(security.AccessClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_claims"})
		return
	}
	if claims.DeviceID == deviceID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot_revoke_current_device"})
		return
	}

	if err := h.authSessions.DeleteByDevice(c.Request.Context(), user.ID, deviceID); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
