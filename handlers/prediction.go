package handlers

import (
	"net/http"

	"discts/models"
	"discts/services/prediction"
	"discts/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PredictionHandler struct {
	Service prediction.PredictionService
}

func NewPredictionHandler(svc prediction.PredictionService) *PredictionHandler {
	return &PredictionHandler{Service: svc}
}

// PredictHandler handles POST /discts/prediction/predict.
func (h *PredictionHandler) PredictHandler(c *gin.Context) {
	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewAppError(utils.KindValidation, "Invalid request body", err))
		return
	}
	result, err := h.Service.Predict(c.Request.Context(), req)
	if err != nil {
		getLogger(c).Error("Prediction error", zap.String("product", req.ProductName), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// HealthHandler handles GET /discts/prediction/.
func (h *PredictionHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Health())
}
