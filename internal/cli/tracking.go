package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sipolgar/sipolgar/internal/session"
	"github.com/sipolgar/sipolgar/internal/tracking"
	"github.com/sipolgar/sipolgar/pkg/models"
)

func (a *app) newWorkoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workouts",
		Aliases: []string{"latihan"},
		Short:   "Browse the training catalogue",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List workouts",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if _, err := a.requireRoute(cmd.Context(), session.RouteMain); err != nil {
					return err
				}
				var list []tracking.WorkoutSummary
				err := a.busy(cmd, "Memuat latihan...", func(ctx context.Context) error {
					var err error
					list, err = a.deps.Tracking.Workouts(ctx)
					return err
				})
				if err != nil {
					return err
				}
				a.out(cmd).Workouts(list)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one workout with its instructions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.requireRoute(cmd.Context(), session.RouteMain); err != nil {
					return err
				}
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				var w *tracking.WorkoutSummary
				err = a.busy(cmd, "Memuat latihan...", func(ctx context.Context) error {
					var err error
					w, err = a.deps.Tracking.Workout(ctx, id)
					return err
				})
				if err != nil {
					return err
				}
				return a.out(cmd).Workout(w)
			},
		},
	)
	return cmd
}

func (a *app) newWeightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "weight",
		Aliases: []string{"berat"},
		Short:   "Weekly weight log",
	}

	var (
		kg   float64
		date string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Record this week's weight",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireRoute(cmd.Context(), session.RouteMain); err != nil {
				return err
			}
			var day time.Time
			if date != "" {
				d, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("--date must look like 2024-06-01: %w", err)
				}
				day = d
			}
			var entry *models.WeightEntry
			err := a.busy(cmd, "Menyimpan berat badan...", func(ctx context.Context) error {
				var err error
				entry, err = a.deps.Tracking.RecordWeight(ctx, kg, day)
				return err
			})
			if err != nil {
				return err
			}
			a.out(cmd).Success("Minggu ke-%d: %.1f kg tercatat", entry.Week, entry.WeightKg)
			return nil
		},
	}
	add.Flags().Float64Var(&kg, "kg", 0, "weight in kilograms")
	add.Flags().StringVar(&date, "date", "", "weigh-in date (YYYY-MM-DD, default today)")
	_ = add.MarkFlagRequired("kg")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the weight history and trend",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if _, err := a.requireRoute(cmd.Context(), session.RouteMain); err != nil {
					return err
				}
				var log *tracking.WeightLog
				err := a.busy(cmd, "Memuat riwayat berat badan...", func(ctx context.Context) error {
					var err error
					log, err = a.deps.Tracking.Weights(ctx)
					return err
				})
				if err != nil {
					return err
				}
				a.out(cmd).Weights(log)
				return nil
			},
		},
		add,
	)
	return cmd
}

func (a *app) newUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "Browse organisational units",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List top-level units",
			RunE: func(cmd *cobra.Command, _ []string) error {
				var units []models.SatuanKerja
				err := a.busy(cmd, "Memuat satuan kerja...", func(ctx context.Context) error {
					units = a.deps.API.ListParentOrgUnits(ctx)
					return ctx.Err()
				})
				if err != nil {
					return err
				}
				a.out(cmd).Units(units)
				return nil
			},
		},
		&cobra.Command{
			Use:   "children <parent-id>",
			Short: "List the units under a parent unit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				var units []models.SatuanKerja
				err = a.busy(cmd, "Memuat satuan kerja...", func(ctx context.Context) error {
					units = a.deps.API.ListChildOrgUnits(ctx, id)
					return ctx.Err()
				})
				if err != nil {
					return err
				}
				a.out(cmd).Units(units)
				return nil
			},
		},
	)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
