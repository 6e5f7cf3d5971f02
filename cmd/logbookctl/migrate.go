package main

import (
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/transit-logbook/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manages the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Applies every pending migration",
	Args:  cobra.NoArgs,
	RunE:  migrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rolls back migrations",
	Args:  cobra.NoArgs,
	RunE:  migrateDown,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Lists migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE:  migrateStatus,
}

var (
	downAll bool
)

func init() {
	migrateDownCmd.Flags().BoolVarP(&downAll, "all", "a", false, "Roll back every migration instead of only the latest")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func withProvider(cmd *cobra.Command, fn func(p *goose.Provider) error) error {
	db, err := openSQLDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	return fn(p)
}

func migrateUp(cmd *cobra.Command, args []string) error {
	return withProvider(cmd, func(p *goose.Provider) error {
		results, err := p.Up(cmd.Context())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("schema is up to date")
		}
		for _, r := range results {
			fmt.Printf("applied %s (%s)\n", r.Source.Path, r.Duration)
		}
		return nil
	})
}

func migrateDown(cmd *cobra.Command, args []string) error {
	return withProvider(cmd, func(p *goose.Provider) error {
		if downAll {
			results, err := p.DownTo(cmd.Context(), 0)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("rolled back %s\n", r.Source.Path)
			}
			return nil
		}

		r, err := p.Down(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("rolled back %s\n", r.Source.Path)
		return nil
	})
}

func migrateStatus(cmd *cobra.Command, args []string) error {
	return withProvider(cmd, func(p *goose.Provider) error {
		statuses, err := p.Status(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range statuses {
			fmt.Printf("%-8s %s\n", s.State, s.Source.Path)
		}
		return nil
	})
}
