// Package httpapi provides the REST HTTP adapter for the routing engine.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CentauroTech/centaurus-sub001/internal/app"
	"github.com/CentauroTech/centaurus-sub001/internal/domain"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// errInvalidRequest tags malformed request payloads.
var errInvalidRequest = errors.New("invalid request")

// ProgressionService represents the routing operations the adapter exposes.
type ProgressionService interface {
	Advance(ctx context.Context, taskID, actorID string) (app.AdvanceResult, error)
	RouteToStage(ctx context.Context, taskIDs []string, stageLabel, actorID string) (app.RouteResult, error)
	TaskActivity(ctx context.Context, taskID string, limit int) ([]domain.ActivityRecord, error)
}

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	service ProgressionService
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs one HTTP API adapter.
func NewHandler(service ProgressionService) *Handler {
	return &Handler{service: service}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)
	switch {
	case path == "tasks/route":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleRouteTasks(w, r)
	default:
		if taskID, ok := resolveTaskSubpath(path, "advance"); ok {
			if r.Method != http.MethodPost {
				writeMethodNotAllowed(w, http.MethodPost)
				return
			}
			h.handleAdvanceTask(w, r, taskID)
			return
		}
		if taskID, ok := resolveTaskSubpath(path, "activity"); ok {
			if r.Method != http.MethodGet {
				writeMethodNotAllowed(w, http.MethodGet)
				return
			}
			h.handleTaskActivity(w, r, taskID)
			return
		}
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
		})
	}
}

// advanceRequest holds the POST `/tasks/{id}/advance` payload.
type advanceRequest struct {
	ActorID string `json:"actor_id"`
}

// advanceResponse mirrors one progression outcome.
type advanceResponse struct {
	TaskID     string `json:"task_id"`
	Moved      bool   `json:"moved"`
	FromLabel  string `json:"from_label,omitempty"`
	StageLabel string `json:"stage_label"`
	BoardID    string `json:"board_id,omitempty"`
	LaneID     string `json:"lane_id,omitempty"`
}

// handleAdvanceTask serves POST `/tasks/{id}/advance`.
func (h *Handler) handleAdvanceTask(w http.ResponseWriter, r *http.Request, taskID string) {
	var req advanceRequest
	if err := decodeOptionalJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	result, err := h.service.Advance(r.Context(), taskID, strings.TrimSpace(req.ActorID))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, advanceResponse{
		TaskID:     result.TaskID,
		Moved:      result.Moved,
		FromLabel:  result.FromLabel,
		StageLabel: result.StageLabel,
		BoardID:    result.BoardID,
		LaneID:     result.LaneID,
	})
}

// routeRequest holds the POST `/tasks/route` payload.
type routeRequest struct {
	TaskIDs []string `json:"task_ids"`
	Stage   string   `json:"stage"`
	ActorID string   `json:"actor_id"`
}

// routeResponse mirrors one bulk move outcome.
type routeResponse struct {
	StageLabel string   `json:"stage_label"`
	BoardID    string   `json:"board_id"`
	Moved      []string `json:"moved"`
}

// handleRouteTasks serves POST `/tasks/route`.
func (h *Handler) handleRouteTasks(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	result, err := h.service.RouteToStage(r.Context(), req.TaskIDs, strings.TrimSpace(req.Stage), strings.TrimSpace(req.ActorID))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routeResponse{
		StageLabel: result.StageLabel,
		BoardID:    result.BoardID,
		Moved:      result.Moved,
	})
}

// activityRecord mirrors one audit entry for API consumers.
type activityRecord struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	Field      string `json:"field,omitempty"`
	OldValue   string `json:"old_value,omitempty"`
	NewValue   string `json:"new_value,omitempty"`
	ActorID    string `json:"actor_id,omitempty"`
	BoardLabel string `json:"board_label,omitempty"`
	StageLabel string `json:"stage_label,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// activityResponse wraps one task's audit trail.
type activityResponse struct {
	TaskID  string           `json:"task_id"`
	Records []activityRecord `json:"records"`
}

// handleTaskActivity serves GET `/tasks/{id}/activity`.
func (h *Handler) handleTaskActivity(w http.ResponseWriter, r *http.Request, taskID string) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSONError(w, http.StatusBadRequest, APIError{
				Code:    "invalid_request",
				Message: "limit must be a non-negative integer",
			})
			return
		}
		limit = parsed
	}
	records, err := h.service.TaskActivity(r.Context(), taskID, limit)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	out := activityResponse{TaskID: taskID, Records: make([]activityRecord, 0, len(records))}
	for _, rec := range records {
		out.Records = append(out.Records, activityRecord{
			ID:         rec.ID,
			Type:       string(rec.Type),
			Field:      rec.Field,
			OldValue:   rec.OldValue,
			NewValue:   rec.NewValue,
			ActorID:    rec.ActorID,
			BoardLabel: rec.BoardLabel,
			StageLabel: rec.StageLabel,
			CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// resolveTaskSubpath extracts the task id from `tasks/{id}/<action>` paths.
func resolveTaskSubpath(path, action string) (string, bool) {
	const prefix = "tasks/"
	suffix := "/" + action
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	id := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix))
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, app.ErrNoBoardForStage):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "no_board_for_stage",
			Message: err.Error(),
		})
	case errors.Is(err, app.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, app.ErrUnknownStage), errors.Is(err, app.ErrNoTasks), errors.Is(err, errInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(errInvalidRequest, err))
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", errInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}

// decodeOptionalJSONBody decodes one optional JSON body and ignores empty payloads.
func decodeOptionalJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(out)
	if err == nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("request canceled: %w", ctx.Err())
		default:
			return nil
		}
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("decode request body: %w", errors.Join(errInvalidRequest, err))
}
