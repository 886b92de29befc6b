package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syntherra/PooDough/internal/service"
)

type profileUpdateRequest struct {
	DisplayName *string   `json:"displayName"`
	Currency    *string   `json:"currency"`
	Salary      *float64  `json:"salary"`
	WorkDays    *[]string `json:"workDays"`
	WorkStart   *string   `json:"workStart"`
	WorkEnd     *string   `json:"workEnd"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.profiles.Update(c.Request.Context(), user, service.ProfileUpdate{
		DisplayName: req.DisplayName,
		Currency:    req.Currency,
		Salary:      req.Salary,
		WorkDays:    req.WorkDays,
		WorkStart:   req.WorkStart,
		WorkEnd:     req.WorkEnd,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(updated)})
}

type onboardingRequest struct {
	DisplayName string   `json:"displayName"`
	Currency    string   `json:"currency"`
	Salary      float64  `json:"salary" binding:"required,gt=0"`
	WorkDays    []string `json:"workDays"`
	WorkStart   string   `json:"workStart"`
	WorkEnd     string   `json:"workEnd"`
}

func (h HandlerSet) CompleteOnboarding(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.profiles.CompleteOnboarding(c.Request.Context(), user, service.OnboardingInput{
		DisplayName: req.DisplayName,
		Currency:    req.Currency,
		Salary:      req.Salary,
		WorkDays:    req.WorkDays,
		WorkStart:   req.WorkStart,
		WorkEnd:     req.WorkEnd,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(updated)})
}

func (h HandlerSet) DisplayNameAvailability(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	name := c.Query("name")
	err := h.profiles.CheckDisplayName(c.Request.Context(), name, user.ID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"available": true})
	case err == service.ErrNameTaken:
		c.JSON(http.StatusOK, gin.H{"available": false})
	default:
		fail(c, err)
	}
}

func (h HandlerSet) UploadAvatar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	url, err := h.avatars.Upload(c.Request.Context(), user, file, fileHeader)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatarUrl": url})
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

func (h HandlerSet) RegisterPushToken(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.profiles.RegisterFCMToken(c.Request.Context(), user.ID, req.Token); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
