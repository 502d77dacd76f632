package evaluationhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"kpiboard/internal/domain/auth"
	"kpiboard/internal/domain/evaluation"
	"kpiboard/internal/platform/report"
	"kpiboard/internal/transport/http/api"
	"kpiboard/internal/transport/http/middleware"
	"kpiboard/internal/transport/http/shared"
)

const maxCommentLength = 4000

var evaluationTypes = []string{
	string(evaluation.TypeSelf),
	string(evaluation.TypeSuperior),
	string(evaluation.TypeTopManagement),
}

type Service interface {
	Dashboard(ctx context.Context, viewer evaluation.Viewer) (evaluation.Dashboard, error)
	TaskDetail(ctx context.Context, viewer evaluation.Viewer, taskID string) (evaluation.TaskDetail, error)
	Submit(ctx context.Context, viewer evaluation.Viewer, taskID string, in evaluation.SubmitInput) (evaluation.Evaluation, error)
	Rescore(ctx context.Context, viewer evaluation.Viewer, taskID string, t evaluation.Type, in evaluation.RescoreInput) (evaluation.Evaluation, error)
	Sheet(ctx context.Context, viewer evaluation.Viewer, taskID string) (report.Sheet, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluations", func(r chi.Router) {
		r.Get("/score-band", h.handleScoreBand)
		r.With(middleware.RequirePermission(auth.PermEvaluationRead)).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequirePermission(auth.PermEvaluationRead)).Get("/tasks/{taskID}", h.handleTaskDetail)
		r.With(middleware.RequirePermission(auth.PermEvaluationWrite)).Post("/tasks/{taskID}/evaluations", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermEvaluationWrite)).Put("/tasks/{taskID}/evaluations/{type}", h.handleRescore)
		r.With(middleware.RequirePermission(auth.PermEvaluationExport)).Get("/tasks/{taskID}/sheet.pdf", h.handleSheet)
	})
}

func viewerFrom(r *http.Request) evaluation.Viewer {
	user, _ := middleware.GetUser(r.Context())
	return evaluation.Viewer{ID: evaluation.ID(user.UserID), Role: user.RoleName}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Service.Dashboard(r.Context(), viewerFrom(r))
	if err != nil {
		writeError(w, r, err, "dashboard_failed")
		return
	}
	api.Success(w, dash, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTaskDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.TaskDetail(r.Context(), viewerFrom(r), chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, r, err, "task_failed")
		return
	}
	api.Success(w, detail, middleware.GetRequestID(r.Context()))
}

type submitRequest struct {
	EvaluationType string  `json:"evaluation_type"`
	Score          float64 `json:"score"`
	Comment        string  `json:"comment"`
	Attachment     string  `json:"attachment"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	evalType := parseType(payload.EvaluationType)
	v := shared.NewValidator()
	v.Required("evaluation_type", payload.EvaluationType, "is required")
	v.Enum("evaluation_type", payload.EvaluationType, evaluationTypes, "must be one of SELF, SUPERIOR, TOP_MANAGEMENT")
	v.MaxLength("comment", payload.Comment, maxCommentLength)
	if v.Reject(w, requestID) {
		return
	}

	ev, err := h.Service.Submit(r.Context(), viewerFrom(r), chi.URLParam(r, "taskID"), evaluation.SubmitInput{
		Type:       evalType,
		Score:      payload.Score,
		Comment:    strings.TrimSpace(payload.Comment),
		Attachment: strings.TrimSpace(payload.Attachment),
	})
	if err != nil {
		writeError(w, r, err, "evaluation_failed")
		return
	}
	api.Created(w, evaluation.EvaluationList{ev}, requestID)
}

type rescoreRequest struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

func (h *Handler) handleRescore(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload rescoreRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.MaxLength("comment", payload.Comment, maxCommentLength)
	if v.Reject(w, requestID) {
		return
	}

	ev, err := h.Service.Rescore(r.Context(), viewerFrom(r), chi.URLParam(r, "taskID"), parseType(chi.URLParam(r, "type")), evaluation.RescoreInput{
		Score:   payload.Score,
		Comment: strings.TrimSpace(payload.Comment),
	})
	if err != nil {
		writeError(w, r, err, "evaluation_failed")
		return
	}
	api.Success(w, evaluation.EvaluationList{ev}, requestID)
}

func (h *Handler) handleSheet(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	sheet, err := h.Service.Sheet(r.Context(), viewerFrom(r), taskID)
	if err != nil {
		writeError(w, r, err, "sheet_failed")
		return
	}

	var buf bytes.Buffer
	if err := report.RenderEvaluationSheet(&buf, sheet); err != nil {
		slog.Warn("evaluation sheet render failed", "taskId", taskID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "sheet_failed", "failed to render evaluation sheet", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=evaluation-%s.pdf", sanitizeFilename(taskID)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("evaluation sheet write failed", "err", err)
	}
}

func (h *Handler) handleScoreBand(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	raw := r.URL.Query().Get("score")
	score, err := strconv.ParseFloat(raw, 64)
	if raw != "" && (err != nil || !evaluation.Finite(score)) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "score", Reason: "must be a finite number"}})
		return
	}
	scale := evaluation.ParseScale(r.URL.Query().Get("scale"))
	band := evaluation.ScoreBand(score, scale)
	api.Success(w, map[string]any{
		"score":   score,
		"max":     scale.Max(),
		"percent": scale.Percent(score),
		"band":    band,
		"hex":     band.Color.Hex(),
	}, requestID)
}

func parseType(raw string) evaluation.Type {
	return evaluation.Type(strings.ToUpper(strings.TrimSpace(raw)))
}

func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '-' || r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "task"
	}
	return b.String()
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallbackCode string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, evaluation.ErrTaskNotFound):
		api.Fail(w, http.StatusNotFound, "task_not_found", err.Error(), requestID)
	case errors.Is(err, evaluation.ErrEvaluationNotFound):
		api.Fail(w, http.StatusNotFound, "evaluation_not_found", err.Error(), requestID)
	case errors.Is(err, evaluation.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, evaluation.ErrEvaluationExists):
		api.Fail(w, http.StatusConflict, "evaluation_exists", err.Error(), requestID)
	case errors.Is(err, evaluation.ErrStageOutOfOrder):
		api.Fail(w, http.StatusConflict, "stage_out_of_order", err.Error(), requestID)
	case errors.Is(err, evaluation.ErrInvalidType):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "evaluation_type", Reason: err.Error()}})
	case errors.Is(err, evaluation.ErrInvalidScore):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "score", Reason: err.Error()}})
	default:
		slog.Warn("evaluation request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, fallbackCode, "request failed", requestID)
	}
}
