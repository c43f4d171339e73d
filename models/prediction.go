package models

// PredictionRequest is the sales prediction payload. Year and month are
// accepted as numbers or strings.
type PredictionRequest struct {
	ProductName string      `json:"productName"`
	Year        interface{} `json:"year"`
	Month       interface{} `json:"month"`
}

// Prediction is the result returned to the caller.
type Prediction struct {
	Product        string  `json:"product"`
	Year           int     `json:"year"`
	Month          string  `json:"month"`
	PredictedSales float64 `json:"predictedSales"`
}
