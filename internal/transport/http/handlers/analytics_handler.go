package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	analyticssvc "github.com/mlisovenko/vitrina/backend/internal/services/analytics"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

type AnalyticsHandler struct {
	service *analyticssvc.Service
}

func NewAnalyticsHandler(service *analyticssvc.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	window, ok := analyticssvc.ParseWindow(r.URL.Query().Get("window"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "unknown window")
		return
	}

	dash, err := h.service.Dashboard(r.Context(), window)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to build dashboard")
		return
	}

	httperrors.Write(w, http.StatusOK, toDashboardResponse(dash))
}

func (h *AnalyticsHandler) Drilldown(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseIDParam(chi.URLParam(r, "profileID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
		return
	}

	d, err := h.service.Drilldown(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, analyticssvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to build drill-down")
		return
	}

	byKind := make(map[string]dto.WindowCountsResponse, len(d.ByKind))
	for kind, counts := range d.ByKind {
		byKind[kind] = toWindowCountsResponse(counts)
	}

	httperrors.Write(w, http.StatusOK, dto.DrilldownResponse{
		ProfileID:   d.ProfileID,
		ByKind:      byKind,
		Totals:      toWindowCountsResponse(d.Totals),
		GeneratedAt: d.GeneratedAt,
	})
}

func (h *AnalyticsHandler) SearchRoster(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window, ok := analyticssvc.ParseWindow(q.Get("window"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "unknown window")
		return
	}

	rollups, err := h.service.SearchRoster(r.Context(), q.Get("search"), window)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to search roster")
		return
	}

	out := make([]dto.ProfileRollupResponse, 0, len(rollups))
	for _, rollup := range rollups {
		out = append(out, toRollupResponse(rollup))
	}

	httperrors.Write(w, http.StatusOK, out)
}

func toDashboardResponse(dash analyticssvc.Dashboard) dto.DashboardResponse {
	breakdown := make([]dto.KindShareResponse, 0, len(dash.Breakdown))
	for _, share := range dash.Breakdown {
		breakdown = append(breakdown, dto.KindShareResponse{
			Kind:    share.Kind,
			Count:   share.Count,
			Percent: share.Percent,
		})
	}

	profiles := make([]dto.ProfileRollupResponse, 0, len(dash.Profiles))
	for _, rollup := range dash.Profiles {
		profiles = append(profiles, toRollupResponse(rollup))
	}

	top := make([]dto.ProfileRollupResponse, 0, len(dash.Top))
	for _, rollup := range dash.Top {
		top = append(top, toRollupResponse(rollup))
	}

	return dto.DashboardResponse{
		Window:         string(dash.Window),
		TotalViews:     dash.TotalViews,
		TotalClicks:    dash.TotalClicks,
		TotalProfiles:  dash.TotalProfiles,
		PublicProfiles: dash.PublicProfiles,
		Breakdown:      breakdown,
		Profiles:       profiles,
		Top:            top,
		GeneratedAt:    dash.GeneratedAt,
	}
}

func toRollupResponse(rollup analyticssvc.ProfileRollup) dto.ProfileRollupResponse {
	return dto.ProfileRollupResponse{
		ProfileID:    rollup.ProfileID,
		DisplayName:  rollup.DisplayName,
		Email:        rollup.Email,
		Views:        rollup.Views,
		Interactions: rollup.Interactions,
		IsPublic:     rollup.IsPublic,
	}
}

func toWindowCountsResponse(counts analyticssvc.WindowCounts) dto.WindowCountsResponse {
	return dto.WindowCountsResponse{
		Today: counts.Today,
		Week:  counts.Week,
		Month: counts.Month,
		All:   counts.All,
	}
}
