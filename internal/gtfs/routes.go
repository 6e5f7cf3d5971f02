// Package gtfs reads the parts of a GTFS static feed the logbook needs.
// Only routes.txt is consumed: it feeds the route color and name lookup.
package gtfs

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"github.com/pkordes/transit-logbook/internal/domain"
)

// routeCSV is one row of routes.txt.
type routeCSV struct {
	ID        string `csv:"route_id"`
	AgencyID  string `csv:"agency_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Desc      string `csv:"route_desc"`
	Type      string `csv:"route_type"`
	URL       string `csv:"route_url"`
	Color     string `csv:"route_color"`
	TextColor string `csv:"route_text_color"`
}

// Default colors from the GTFS reference.
const (
	defaultRouteColor     = "FFFFFF"
	defaultRouteTextColor = "000000"
)

// ParseRoutes reads a routes.txt file. A leading UTF-8 BOM is ignored and
// sloppy quoting is tolerated. Rows are validated the way the GTFS reference
// describes: route_id is required and unique, one of the names is required,
// route_type must be an integer and colors must be six hex digits.
func ParseRoutes(r io.Reader) ([]domain.Route, error) {
	rows := []*routeCSV{}
	reader := gocsv.LazyCSVReader(bom.NewReader(r))
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("gtfs.ParseRoutes: unmarshal: %w", err)
	}

	seen := map[string]bool{}
	routes := make([]domain.Route, 0, len(rows))
	for i, row := range rows {
		route, err := row.toRoute()
		if err != nil {
			return nil, fmt.Errorf("gtfs.ParseRoutes: row %d: %w", i+2, err) // +1 header, +1 one-based
		}
		if seen[route.ID] {
			return nil, fmt.Errorf("gtfs.ParseRoutes: row %d: repeated route_id %q", i+2, route.ID)
		}
		seen[route.ID] = true
		routes = append(routes, route)
	}
	return routes, nil
}

func (r *routeCSV) toRoute() (domain.Route, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return domain.Route{}, fmt.Errorf("route has no route_id")
	}
	shortName := strings.TrimSpace(r.ShortName)
	longName := strings.TrimSpace(r.LongName)
	if shortName == "" && longName == "" {
		return domain.Route{}, fmt.Errorf("route_id %q has no short_name or long_name", id)
	}
	if strings.TrimSpace(r.Type) == "" {
		return domain.Route{}, fmt.Errorf("route_id %q has no route_type", id)
	}
	routeType, err := strconv.Atoi(strings.TrimSpace(r.Type))
	if err != nil {
		return domain.Route{}, fmt.Errorf("route_id %q has invalid route_type: %w", id, err)
	}

	color, err := normalizeColor(r.Color, defaultRouteColor)
	if err != nil {
		return domain.Route{}, fmt.Errorf("route_id %q has invalid route_color: %w", id, err)
	}
	textColor, err := normalizeColor(r.TextColor, defaultRouteTextColor)
	if err != nil {
		return domain.Route{}, fmt.Errorf("route_id %q has invalid route_text_color: %w", id, err)
	}

	return domain.Route{
		ID:        id,
		AgencyID:  strings.TrimSpace(r.AgencyID),
		ShortName: shortName,
		LongName:  longName,
		Desc:      r.Desc,
		Type:      routeType,
		URL:       r.URL,
		Color:     color,
		TextColor: textColor,
	}, nil
}

// normalizeColor returns c upper-cased, or fallback when c is empty.
func normalizeColor(c, fallback string) (string, error) {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if c == "" {
		return fallback, nil
	}
	if len(c) != 6 {
		return "", fmt.Errorf("%q is not six hex digits", c)
	}
	if _, err := hex.DecodeString(c); err != nil {
		return "", fmt.Errorf("%q is not six hex digits", c)
	}
	return strings.ToUpper(c), nil
}
