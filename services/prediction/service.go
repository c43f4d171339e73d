package prediction

import (
	"context"
	"strings"

	"discts/models"
	"discts/utils"

	"github.com/spf13/cast"
)

// PredictionService validates prediction requests and forwards them to the
// gateway.
type PredictionService interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error)
	Health() Health
}

// Health describes the gateway for the status endpoint.
type Health struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	ScriptAvailable bool   `json:"scriptAvailable"`
}

// DefaultPredictionService implements PredictionService.
type DefaultPredictionService struct {
	Gateway *Gateway
}

func (s *DefaultPredictionService) Predict(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error) {
	name := strings.TrimSpace(req.ProductName)
	month := strings.TrimSpace(cast.ToString(req.Month))
	if name == "" || req.Year == nil || month == "" {
		return nil, utils.ValidationError("Missing required fields: productName, year, month")
	}
	year, err := cast.ToIntE(req.Year)
	if err != nil || year <= 0 {
		return nil, utils.ValidationError("Year must be a positive integer")
	}

	value, err := s.Gateway.Run(ctx, name, year, month)
	if err != nil {
		return nil, err
	}
	return &models.Prediction{
		Product:        name,
		Year:           year,
		Month:          month,
		PredictedSales: value,
	}, nil
}

func (s *DefaultPredictionService) Health() Health {
	return Health{
		Status:          "ok",
		Message:         "Sales Prediction API is running",
		ScriptAvailable: s.Gateway.ScriptAvailable(),
	}
}
