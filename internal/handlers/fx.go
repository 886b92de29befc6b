package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) FXRates(c *gin.Context) {
	rates, err := h.fx.Rates(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	resp := gin.H{"base": "USD", "rates": rates}
	if updated := h.fx.LastUpdated(c.Request.Context()); !updated.IsZero() {
		resp["updatedAt"] = updated.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}
