package handler

import (
	"net/http"
	"time"

	"github.com/mcoot/slotmachine-go/internal/api/request"
	"github.com/mcoot/slotmachine-go/internal/api/response"
	"github.com/mcoot/slotmachine-go/internal/services/reporting"
)

// ReportHandler handles read-only reporting endpoints
type ReportHandler struct {
	reporting *reporting.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(reporting *reporting.Service) *ReportHandler {
	return &ReportHandler{
		reporting: reporting,
	}
}

// Games handles GET /api/v1/games?start_date=&end_date=
func (h *ReportHandler) Games(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	rows, err := h.reporting.ListGames(r.Context(), start, end)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GamesFromRows(rows))
}

// Winners handles GET /api/v1/winners?start_date=&end_date=
func (h *ReportHandler) Winners(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	rows, err := h.reporting.ListWinners(r.Context(), start, end)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GamesFromRows(rows))
}

// RecentPlayers handles GET /api/v1/recent-players
func (h *ReportHandler) RecentPlayers(w http.ResponseWriter, r *http.Request) {
	recent, err := h.reporting.RecentPlayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RecentPlayersFromReport(recent))
}

// Stats handles GET /api/v1/stats
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reporting.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StatsFromReport(stats))
}

// Audit handles GET /api/v1/audit?start_date=&end_date=
func (h *ReportHandler) Audit(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	logs, err := h.reporting.AuditTrail(r.Context(), start, end)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AuditFromModels(logs))
}

// dateRange reads the required start_date and end_date query parameters
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()

	var bounds [2]time.Time
	for i, name := range []string{"start_date", "end_date"} {
		v := q.Get(name)
		if v == "" {
			return time.Time{}, time.Time{}, NewInvalidRequestError(name + " is required")
		}
		t, err := request.ParseDate(v)
		if err != nil {
			return time.Time{}, time.Time{}, NewInvalidRequestError(name + ": " + err.Error())
		}
		bounds[i] = t
	}
	return bounds[0], bounds[1], nil
}
