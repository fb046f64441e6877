package http

import (
	"net/http"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
)

type analyticsData struct {
	page
	Stats       core.QuickStats
	Series      core.ProteinSeries
	MaxDaily    int
	MaxWeekly   int
	Goal        int
	Progress    core.GoalProgress
	HasProgress bool
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.ListEntries(r.Context())
	if err != nil {
		s.serverError(w, r, "Failed to list entries for analytics", err, log.OpList)
		return
	}

	goal := parseGoal(r.URL.Query(), s.proteinGoal)
	series := core.BuildProteinSeries(entries)

	data := analyticsData{
		page:   page{Title: "Analytics", Active: "analytics"},
		Stats:  core.ComputeQuickStats(entries),
		Series: series,
		Goal:   goal,
	}
	for _, d := range series.Daily {
		data.MaxDaily = max(data.MaxDaily, d.Protein, goal)
	}
	for _, wk := range series.Weekly {
		data.MaxWeekly = max(data.MaxWeekly, wk.Protein)
	}
	data.Progress, data.HasProgress = core.ComputeGoalProgress(series.Daily, goal)

	s.render(w, r, http.StatusOK, "analytics.html", data)
}

type proteinPoint struct {
	Date    string `json:"date"`
	Protein int    `json:"protein"`
}

type weekPoint struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Label   string `json:"label"`
	Protein int    `json:"protein"`
}

type categoryPoint struct {
	Category string `json:"category"`
	Protein  int    `json:"protein"`
}

type proteinResponse struct {
	Goal       int             `json:"goal"`
	Daily      []proteinPoint  `json:"daily"`
	Weekly     []weekPoint     `json:"weekly"`
	ByCategory []categoryPoint `json:"by_category"`
}

// handleProteinAPI returns the protein series as JSON for charts. Empty
// series are encoded as empty arrays.
func (s *Server) handleProteinAPI(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.ListEntries(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list entries for protein API", log.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	series := core.BuildProteinSeries(entries)
	resp := proteinResponse{
		Goal:       parseGoal(r.URL.Query(), s.proteinGoal),
		Daily:      make([]proteinPoint, 0, len(series.Daily)),
		Weekly:     make([]weekPoint, 0, len(series.Weekly)),
		ByCategory: make([]categoryPoint, 0, len(series.ByCategory)),
	}
	for _, d := range series.Daily {
		resp.Daily = append(resp.Daily, proteinPoint{Date: d.Date.String(), Protein: d.Protein})
	}
	for _, wk := range series.Weekly {
		resp.Weekly = append(resp.Weekly, weekPoint{
			Start:   wk.Start.String(),
			End:     wk.End.String(),
			Label:   wk.Label,
			Protein: wk.Protein,
		})
	}
	for _, c := range series.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryPoint{Category: string(c.Category), Protein: c.Protein})
	}

	writeJSON(w, http.StatusOK, resp)
}
