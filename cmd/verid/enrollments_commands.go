package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"verid/internal/config"
	"verid/internal/enrollment"
)

func newEnrollmentsCommand(ctx *commandContext) *cobra.Command {
	enrollmentsCmd := &cobra.Command{
		Use:   "enrollments",
		Short: "Enrolled user management",
	}
	enrollmentsCmd.AddCommand(newEnrollmentsListCommand(ctx))
	enrollmentsCmd.AddCommand(newEnrollmentsRemoveCommand(ctx))
	return enrollmentsCmd
}

func newEnrollmentsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enrolled users",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := enrollment.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if !isTerminal(cmd.OutOrStdout()) {
				return writeJSON(cmd, enrollmentViews(records))
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No enrollments")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.UserID,
					fmt.Sprintf("%d", len(record.Embedding)),
					record.UpdatedAt.Local().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"User", "Dims", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newEnrollmentsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <user-id>",
		Short: "Remove a user's enrollment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func(cfg *config.Config) error {
				store, err := enrollment.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()

				removed, err := store.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "No enrollment for %s\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed enrollment for %s\n", args[0])
				return nil
			})
		},
	}
}

type enrollmentJSON struct {
	UserID    string `json:"user_id"`
	Dims      int    `json:"dims"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func enrollmentViews(records []*enrollment.Record) []enrollmentJSON {
	views := make([]enrollmentJSON, 0, len(records))
	for _, record := range records {
		views = append(views, enrollmentJSON{
			UserID:    record.UserID,
			Dims:      len(record.Embedding),
			CreatedAt: record.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt: record.UpdatedAt.Format(time.RFC3339Nano),
		})
	}
	return views
}
