package domain

// Route is a single row of a GTFS routes.txt file.
// Only ShortName, LongName and Color are read by the core; the remaining
// fields are kept so the table mirrors the feed.
type Route struct {
	ID        string
	AgencyID  string
	ShortName string
	LongName  string
	Desc      string
	Type      int
	URL       string
	Color     string // six hex digits, no leading '#'
	TextColor string
}
