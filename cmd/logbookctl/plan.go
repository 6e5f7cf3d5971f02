package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/planner"
	"github.com/pkordes/transit-logbook/internal/repo"
	"github.com/pkordes/transit-logbook/internal/service"
)

var planCmd = &cobra.Command{
	Use:   "plan <from_lat> <from_lon> <to_lat> <to_lon>",
	Short: "Searches bus trips between two coordinates",
	Args:  cobra.ExactArgs(4),
	RunE:  plan,
}

var (
	departAt string
)

func init() {
	planCmd.Flags().StringVarP(&departAt, "at", "t", "", "Departure date-time (default now)")
}

func plan(cmd *cobra.Command, args []string) error {
	coords := make([]*float64, len(args))
	for i, a := range args {
		var v float64
		if _, err := fmt.Sscan(a, &v); err != nil {
			return fmt.Errorf("'%s' is not a number", a)
		}
		coords[i] = &v
	}
	if departAt == "" {
		departAt = time.Now().In(cfg.Location).Format(time.RFC3339)
	}

	pool, err := openPool(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := service.NewSearchService(
		planner.New(cfg.PlannerURL, &http.Client{Timeout: cfg.PlannerTimeout}),
		repo.NewRouteRepo(pool),
		cfg.Location,
		logger(),
	)
	patterns, err := svc.Search(cmd.Context(), service.TripQuery{
		StartLat: coords[0],
		StartLon: coords[1],
		EndLat:   coords[2],
		EndLon:   coords[3],
		DateTime: departAt,
	})
	if err != nil {
		return err
	}

	for i, p := range patterns {
		fmt.Printf("#%d %s → %s (%s)\n", i+1,
			p.AimedStartTime.In(cfg.Location).Format("15:04"),
			p.AimedEndTime.In(cfg.Location).Format("15:04"),
			time.Duration(p.Duration)*time.Second)
		for _, leg := range p.Legs {
			fmt.Printf("   %s\n", describeLeg(leg))
		}
	}
	return nil
}

func describeLeg(leg domain.Leg) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s", strings.ToLower(string(leg.Mode)))
	if code := leg.RouteCode(); code != "" {
		fmt.Fprintf(&b, " %-4s", code)
	}
	fmt.Fprintf(&b, " %s → %s  %.0fm  [%s]", leg.FromPlace.Name, leg.ToPlace.Name, leg.Distance, leg.Color)
	return b.String()
}
