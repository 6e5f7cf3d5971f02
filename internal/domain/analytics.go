package domain

// LeaderboardEntry is one row of the user leaderboard.
type LeaderboardEntry struct {
	Nickname   string `json:"nickname"`
	TotalTrips int64  `json:"total_trips"`
}

// RouteUsage is the derived usage of one route across all persisted bus legs.
// It is computed on read and never stored.
type RouteUsage struct {
	RouteLongName string  `json:"route_long_name"`
	LegCount      int64   `json:"leg_count"`
	TotalDistance float64 `json:"total_distance"`
}

// Analytics is a consistent snapshot of both rankings, read in one transaction.
type Analytics struct {
	Leaderboard []LeaderboardEntry `json:"user_leaderboard"`
	RouteUsage  []RouteUsage       `json:"route_analytics"`
}
