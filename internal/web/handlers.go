package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"incident-analysis/internal/models"
	"incident-analysis/internal/reliability"
	"incident-analysis/internal/report"
)

// recentLimit is the number of incidents shown on the dashboard
const recentLimit = 3

// handleHealth handles /api/health requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListIncidents handles GET /api/incidents, optionally filtered by a
// search term over substation and feeder names
func (s *Server) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := s.store.ListIncidents(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	status := r.URL.Query().Get("status")

	result := make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if q != "" && !strings.Contains(strings.ToLower(inc.PosteName), q) && !strings.Contains(strings.ToLower(inc.Depart), q) {
			continue
		}
		if status != "" && string(inc.Status) != status {
			continue
		}
		result = append(result, inc)
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleCreateIncident handles POST /api/incidents
func (s *Server) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	inc, ok := s.decodeIncident(w, r)
	if !ok {
		return
	}

	now := s.now().UTC()
	inc.ID = ""
	inc.CreatedAt = &now
	inc.Status = models.StatusPending

	saved, err := s.store.SaveIncident(r.Context(), inc)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

// handleGetIncident handles GET /api/incidents/{id}
func (s *Server) handleGetIncident(w http.ResponseWriter, r *http.Request) {
	inc, err := s.store.GetIncident(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, inc)
}

// handleUpdateIncident handles PUT /api/incidents/{id}. Creation time and
// status are kept from the stored record.
func (s *Server) handleUpdateIncident(w http.ResponseWriter, r *http.Request) {
	existing, err := s.store.GetIncident(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	inc, ok := s.decodeIncident(w, r)
	if !ok {
		return
	}
	inc.ID = existing.ID
	inc.CreatedAt = existing.CreatedAt
	inc.Status = existing.Status

	if err := s.store.UpdateIncident(r.Context(), inc); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, inc)
}

// handleDeleteIncident handles DELETE /api/incidents/{id}
func (s *Server) handleDeleteIncident(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteIncident(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateStatus handles PATCH /api/incidents/{id}/status
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	status := models.Status(body.Status)
	if !status.Valid() {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", body.Status))
		return
	}
	s.setStatus(w, r, status)
}

// handleResolve handles POST /api/incidents/{id}/resolve
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	s.setStatus(w, r, models.StatusResolved)
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request, status models.Status) {
	id := mux.Vars(r)["id"]
	if err := s.store.UpdateStatus(r.Context(), id, status); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(status)})
}

// handleDashboard handles /api/dashboard requests
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountByStatus(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	recent, err := s.store.RecentIncidents(r.Context(), recentLimit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	stats := models.DashboardStats{
		Resolved:   counts[models.StatusResolved],
		Pending:    counts[models.StatusPending],
		InProgress: counts[models.StatusInProgress],
		Recent:     recent,
	}
	for _, n := range counts {
		stats.Total += n
	}
	if stats.Recent == nil {
		stats.Recent = []models.Incident{}
	}

	s.writeJSON(w, http.StatusOK, stats)
}

// handleAnalysis handles /api/analysis requests
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	res, ok := s.analyze(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleExport handles /api/analysis/export requests
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.analyze(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report_%d.csv", s.now().Unix()))
	if err := report.WriteCSV(w, res.Filtered); err != nil {
		s.logger.WithError(err).Error("Failed to write CSV export")
	}
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (models.MetricsResult, bool) {
	q := reliability.Query{
		Range: r.URL.Query().Get("range"),
		Type:  r.URL.Query().Get("type"),
	}
	if q.Range == "" {
		q.Range = string(reliability.Last30Days)
	}
	if _, err := reliability.ParseRangeLabel(q.Range); err != nil {
		s.logger.WithField("range", q.Range).Warn("Unknown date range, using last 30 days")
	}

	incidents, err := s.store.ListIncidents(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return models.MetricsResult{}, false
	}

	res := s.engine.Analyze(incidents, q, s.now())
	if res.Filtered == nil {
		res.Filtered = []models.Incident{}
	}
	return res, true
}

// handleSnapshots handles /api/snapshots requests
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	snapshots, err := s.store.ListSnapshots(r.Context(), r.URL.Query().Get("range"), limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if snapshots == nil {
		snapshots = []models.Snapshot{}
	}
	s.writeJSON(w, http.StatusOK, snapshots)
}

// decodeIncident reads an incident body and checks the fields the form requires
func (s *Server) decodeIncident(w http.ResponseWriter, r *http.Request) (models.Incident, bool) {
	var inc models.Incident
	if err := json.NewDecoder(r.Body).Decode(&inc); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return inc, false
	}
	if strings.TrimSpace(inc.PosteName) == "" {
		s.writeError(w, http.StatusBadRequest, "Poste Name is required")
		return inc, false
	}
	if len(inc.Type) == 0 {
		s.writeError(w, http.StatusBadRequest, "At least one incident type is required")
		return inc, false
	}
	if inc.Duration != nil && !reliability.ValidDuration(*inc.Duration) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Duration must be between 0 and %d hours", reliability.MaxOutageHours))
		return inc, false
	}
	if inc.AffectedCustomers != nil && *inc.AffectedCustomers < 0 {
		s.writeError(w, http.StatusBadRequest, "Affected customers cannot be negative")
		return inc, false
	}
	return inc, true
}
