package http

import (
	"net/http"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
)

const recentLimit = 10

type dashboardData struct {
	page
	Stats       core.QuickStats
	Recent      []core.FoodEntry
	MostCommon  core.Category
	HasCommon   bool
	Highest     core.FoodEntry
	HasHighest  bool
	TodayCount  int
	WeekCount   int
	ProteinGoal int
}

// handleDashboard shows quick stats, the most recent entries and a few
// insights computed over those recent entries.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.ListEntries(r.Context())
	if err != nil {
		s.serverError(w, r, "Failed to list entries for dashboard", err, log.OpList)
		return
	}

	today := s.today()
	recent := core.Recent(entries, recentLimit)

	data := dashboardData{
		page:        page{Title: "Dashboard", Active: "dashboard"},
		Stats:       core.ComputeQuickStats(entries),
		Recent:      recent,
		TodayCount:  core.CountOn(entries, today),
		WeekCount:   core.CountSince(entries, today.AddDays(-7)),
		ProteinGoal: s.proteinGoal,
	}
	data.MostCommon, data.HasCommon = core.MostCommonCategory(recent)
	data.Highest, data.HasHighest = core.HighestProteinEntry(recent)

	s.render(w, r, http.StatusOK, "dashboard.html", data)
}
