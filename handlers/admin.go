package handlers

import (
	"net/http"

	"discts/cron"
	"discts/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes maintenance operations.
type AdminHandler struct {
	Purge *cron.PurgeJob
}

func NewAdminHandler(job *cron.PurgeJob) *AdminHandler {
	return &AdminHandler{Purge: job}
}

// PurgeInvoicesHandler runs the invoice retention job immediately.
func (ah *AdminHandler) PurgeInvoicesHandler(c *gin.Context) {
	result, err := ah.Purge.Run(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Manual invoice purge", zap.Int("deleted", result.Deleted), zap.Int("failed", result.Failed))
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// HealthHandler reports the latest dependency snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "DISCTS API is running", "dependencies": status})
}
