package handlers

import (
	"errors"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roadguard/roadguard-go/internal/demosrv/store"
	"github.com/roadguard/roadguard-go/internal/models"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// DetectHandler runs the stand-in damage classifier over uploaded photos.
// The classifier is deterministic on the image bytes so repeated uploads
// of the same photo produce the same verdict, which makes demos and
// client tests reproducible.
type DetectHandler struct {
	st     store.Store
	logger *zap.SugaredLogger
}

// NewDetectHandler creates a new detection handler
func NewDetectHandler(st store.Store, logger *zap.SugaredLogger) *DetectHandler {
	return &DetectHandler{st: st, logger: logger}
}

// Predict handles POST /api/v1/detect/predict (multipart photo upload).
func (h *DetectHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		respondError(w, http.StatusUnsupportedMediaType, "Only image uploads are accepted")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	det := classify(data)
	det.DetectionID = uuid.NewString()
	det.Latitude = parseCoord(r.FormValue("latitude"))
	det.Longitude = parseCoord(r.FormValue("longitude"))
	det.Address = r.FormValue("address")

	if err := h.st.SaveDetection(r.Context(), det); err != nil {
		h.logger.Errorw("Failed to save detection", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save detection")
		return
	}

	h.logger.Infow("Detection completed",
		"detection_id", det.DetectionID,
		"damage_type", det.DamageType,
		"severity", det.SeverityLevel,
		"bytes", len(data),
	)
	respondJSON(w, http.StatusOK, det)
}

// Get handles GET /api/v1/detect/{id}
func (h *DetectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	det, err := h.st.Detection(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Detection not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch detection")
		return
	}
	respondJSON(w, http.StatusOK, det)
}

// classify derives a damage verdict from the image bytes. A hash of the
// content drives every field, standing in for the real model.
func classify(data []byte) models.Detection {
	hasher := fnv.New32a()
	hasher.Write(data)
	sum := hasher.Sum32()

	det := models.Detection{}
	switch sum % 10 {
	case 8, 9:
		det.DamageType = models.DamageCrack
	case 7:
		det.DamageType = models.DamageNone
	default:
		det.DamageType = models.DamagePothole
	}

	if det.DamageType == models.DamageNone {
		det.Confidence = 90 + float64(sum%800)/100
		det.SeverityLevel = models.SeverityLow
		det.SeverityScore = 0
		det.DamageCount = 0
		return det
	}

	det.Confidence = 78 + float64(sum%2000)/100
	det.SeverityScore = float64(sum%450) / 10
	det.DamageCount = 1 + int(sum%4)
	switch {
	case det.SeverityScore > 25:
		det.SeverityLevel = models.SeverityHigh
	case det.SeverityScore > 12:
		det.SeverityLevel = models.SeverityMedium
	default:
		det.SeverityLevel = models.SeverityLow
	}
	return det
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
