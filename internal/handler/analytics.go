package handler

import "net/http"

// GetAnalytics handles GET /analytics: both rankings from one snapshot.
func (s *Server) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	snap, err := s.analytics.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetLeaderboard handles GET /analytics/leaderboard.
func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.analytics.Leaderboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetRouteUsage handles GET /analytics/routes.
func (s *Server) GetRouteUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := s.analytics.RouteUsageRanking(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}
