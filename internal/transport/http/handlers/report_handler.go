package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlisovenko/vitrina/backend/internal/domain/model"
	ratesvc "github.com/mlisovenko/vitrina/backend/internal/services/rate"
	reportsvc "github.com/mlisovenko/vitrina/backend/internal/services/reports"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

type ReportHandler struct {
	service *reportsvc.Service
	limiter *ratesvc.Limiter
}

func NewReportHandler(service *reportsvc.Service, limiter *ratesvc.Limiter) *ReportHandler {
	return &ReportHandler{service: service, limiter: limiter}
}

// Create accepts reports from anyone, signed in or not.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if h.limiter != nil {
		retryAfter, allowed, err := h.limiter.AllowReport(r.Context(), clientKey(r))
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "failed to check rate limit")
			return
		}
		if !allowed {
			writeRateLimited(w, retryAfter)
			return
		}
	}

	row, err := h.service.Create(r.Context(), reportsvc.CreateInput{
		ProfileID:     req.ProfileID,
		Reason:        req.Reason,
		Description:   req.Description,
		ReporterName:  req.ReporterName,
		ReporterEmail: req.ReporterEmail,
	})
	if err != nil {
		handleReportError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toReportResponse(row))
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.service.List(r.Context(), reportsvc.ListInput{
		Status: q.Get("status"),
		Limit:  parseIntOrDefault(q.Get("limit"), 0),
		Offset: parseIntOrDefault(q.Get("offset"), 0),
	})
	if err != nil {
		handleReportError(w, err)
		return
	}

	items := make([]dto.ReportResponse, 0, len(result.Items))
	for _, row := range result.Items {
		items = append(items, toReportResponse(row))
	}

	httperrors.Write(w, http.StatusOK, dto.ReportListResponse{
		Items: items,
		Total: result.Total,
	})
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	reportID, ok := parseIDParam(chi.URLParam(r, "reportID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	row, err := h.service.Get(r.Context(), reportID)
	if err != nil {
		handleReportError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toReportResponse(row))
}

func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	reportID, ok := parseIDParam(chi.URLParam(r, "reportID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	var req dto.UpdateReportStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	row, err := h.service.Transition(r.Context(), reportID, req.Status)
	if err != nil {
		handleReportError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toReportResponse(row))
}

func handleReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reportsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "report validation failed")
	case errors.Is(err, reportsvc.ErrReportNotFound):
		writeNotFound(w, "REPORT_NOT_FOUND", "report not found")
	case errors.Is(err, reportsvc.ErrInvalidTransition):
		writeConflict(w, "INVALID_TRANSITION", "status transition is not allowed")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func toReportResponse(report model.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:            report.ID,
		ProfileID:     report.ProfileID,
		Reason:        string(report.Reason),
		Description:   report.Description,
		ReporterName:  report.ReporterName,
		ReporterEmail: report.ReporterEmail,
		Status:        string(report.Status),
		CreatedAt:     report.CreatedAt,
		UpdatedAt:     report.UpdatedAt,
	}
}
