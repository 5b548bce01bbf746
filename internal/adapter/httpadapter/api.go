package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/couchcryptid/blast-effects-service/internal/domain"
	"github.com/couchcryptid/blast-effects-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxRequestBytes = 64 << 10

type api struct {
	catalog    *domain.Catalog
	defaultLaw string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

type assessRequest struct {
	YieldKt float64 `json:"yield_kt"`
	Preset  string  `json:"preset"`
	Law     string  `json:"law"`
}

type assessResponse struct {
	Preset string `json:"preset,omitempty"`
	domain.Assessment
}

func (a *api) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		a.reject(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	resp, err := a.assess(req)
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusBadRequest
		}
		a.reject(w, status, err)
		return
	}

	if a.respond(w, http.StatusOK, resp) {
		a.metrics.Assessments.WithLabelValues("http", "success").Inc()
	}
}

func (a *api) assess(req assessRequest) (assessResponse, error) {
	req.Preset = strings.ToLower(strings.TrimSpace(req.Preset))
	yieldKt, err := domain.ResolveYield(domain.DetonationRequest{YieldKt: req.YieldKt, Preset: req.Preset}, a.catalog)
	if err != nil {
		return assessResponse{}, err
	}

	lawName := req.Law
	if lawName == "" {
		lawName = a.defaultLaw
	}
	law, err := a.catalog.Law(lawName)
	if err != nil {
		return assessResponse{}, err
	}

	assessment, err := domain.Assess(yieldKt, law)
	if err != nil {
		return assessResponse{}, err
	}

	resp := assessResponse{Assessment: assessment}
	if req.YieldKt == 0 {
		resp.Preset = req.Preset
	}
	return resp, nil
}

func (a *api) handleLaws(w http.ResponseWriter, _ *http.Request) {
	a.respond(w, http.StatusOK, map[string]any{
		"default": a.defaultLaw,
		"laws":    a.catalog.Laws(),
	})
}

func (a *api) handlePresets(w http.ResponseWriter, _ *http.Request) {
	a.respond(w, http.StatusOK, map[string]any{
		"presets": a.catalog.Presets(),
	})
}

func (a *api) reject(w http.ResponseWriter, status int, err error) {
	a.metrics.Assessments.WithLabelValues("http", "rejected").Inc()
	if status >= http.StatusInternalServerError {
		a.logger.Error("assessment failed", "error", err)
	} else {
		a.logger.Debug("assessment rejected", "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidYield) ||
		errors.Is(err, domain.ErrUnknownScalingLaw) ||
		errors.Is(err, domain.ErrUnknownPreset)
}

// respond encodes v before writing the status; an unencodable v is rejected
// with a 500. Reports whether v was sent.
func (a *api) respond(w http.ResponseWriter, status int, v any) bool {
	body, err := json.Marshal(v)
	if err != nil {
		a.reject(w, http.StatusInternalServerError, fmt.Errorf("encode response: %w", err))
		return false
	}
	sharedobs.WriteJSON(w, status, json.RawMessage(body))
	return true
}
