package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/raman-shres/fba-dashboard/pkg/models/api"
	"github.com/raman-shres/fba-dashboard/pkg/services/analysis"
)

const maxUploadBytes = 10 << 20

// Service is the analysis pipeline the handler fronts.
type Service interface {
	Analyze(ctx context.Context, items []api.AnalyzeItem) (*api.AnalyzeResponse, error)
}

type Handler struct {
	analyzer Service
}

func NewHandler(analyzer Service) *Handler {
	return &Handler{analyzer: analyzer}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r, w, http.StatusOK, api.HealthResponse{OK: true})
}

// Analyze handles POST /api/asins/analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r, w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.analyzer.Analyze(ctx, req.Items)
	if err != nil {
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			writeError(r, w, http.StatusBadRequest, verr.Error())
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("analysis failed")
		writeError(r, w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(r, w, http.StatusOK, resp)
}

// Upload handles POST /api/batches/upload: parses a CSV into request items
// and returns a preview of the first rows.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(r, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(r, w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(r, w, http.StatusBadRequest, "please upload a .csv file")
		return
	}

	items, err := analysis.ReadItemsCSV(file)
	if err != nil {
		writeError(r, w, http.StatusBadRequest, err.Error())
		return
	}

	preview := items
	if len(preview) > 10 {
		preview = preview[:10]
	}
	writeJSON(r, w, http.StatusOK, api.UploadResponse{OK: true, Count: len(items), Preview: preview})
}

func writeJSON(r *http.Request, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(r *http.Request, w http.ResponseWriter, status int, msg string) {
	writeJSON(r, w, status, api.ErrorResponse{Error: msg})
}
