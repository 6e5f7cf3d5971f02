package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/transit-logbook/internal/gtfs"
	"github.com/pkordes/transit-logbook/internal/repo"
	"github.com/pkordes/transit-logbook/internal/service"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Manages route metadata",
}

var routesLoadCmd = &cobra.Command{
	Use:   "load <routes.txt>",
	Short: "Loads route names and colors from a GTFS routes.txt file",
	Args:  cobra.ExactArgs(1),
	RunE:  routesLoad,
}

var (
	dryRun bool
)

func init() {
	routesLoadCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Parse and validate only")
	routesCmd.AddCommand(routesLoadCmd)
}

func routesLoad(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	routes, err := gtfs.ParseRoutes(f)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Printf("%d routes parsed, nothing written\n", len(routes))
		return nil
	}

	pool, err := openPool(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := service.NewRouteImportService(repo.NewTxManager(pool), logger()).Import(cmd.Context(), routes)
	if err != nil {
		return err
	}
	fmt.Printf("%d routes loaded\n", n)
	return nil
}
