package services

import (
	"context"
	"io"

	"github.com/roadguard/roadguard-go/internal/demo"
	"github.com/roadguard/roadguard-go/internal/gateway"
	"github.com/roadguard/roadguard-go/internal/models"
	"go.uber.org/zap"
)

// DetectionService runs AI damage inference with an unconditional fallback.
// Unlike the other façades, ANY failure is masked here, not just
// connectivity: a failed scan must never dead-end the submission wizard.
type DetectionService struct {
	api    *gateway.Client
	logger *zap.SugaredLogger
}

// NewDetectionService creates a new detection façade.
func NewDetectionService(api *gateway.Client, logger *zap.SugaredLogger) *DetectionService {
	return &DetectionService{api: api, logger: logger}
}

// DetectionResult is one inference outcome, live or fallback.
type DetectionResult struct {
	models.Detection
	UsedFallback bool
}

// Predict submits an image for damage detection. It cannot fail: on any
// error the deterministic fallback detection is returned instead.
func (s *DetectionService) Predict(ctx context.Context, filename string, file io.Reader) *DetectionResult {
	var det models.Detection
	err := s.api.Upload(ctx, "/api/v1/detect/predict", "file", filename, file, &det)
	if err == nil {
		return &DetectionResult{Detection: det}
	}
	s.logger.Warnw("detection unavailable, substituting fallback result",
		"file", filename,
		"error", err,
	)
	return &DetectionResult{Detection: demo.Detection(), UsedFallback: true}
}

// Get fetches a stored detection by id. No fallback: a stored detection is
// only requested when one is known to exist.
func (s *DetectionService) Get(ctx context.Context, id string) (models.Detection, error) {
	var det models.Detection
	if err := s.api.Get(ctx, "/api/v1/detect/"+id, nil, &det); err != nil {
		return models.Detection{}, err
	}
	return det, nil
}
