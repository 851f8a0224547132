package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"verid/internal/audit"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Verification session records",
	}
	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := audit.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Sessions(cmd.Context())
			if err != nil {
				return err
			}

			if !isTerminal(cmd.OutOrStdout()) {
				return writeJSON(cmd, sessionViews(records))
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				ended := ""
				if record.EndedAt != nil {
					ended = record.EndedAt.Local().Format(time.RFC3339)
				}
				rows = append(rows, []string{
					record.ID,
					record.UserID,
					record.Status,
					record.StartedAt.Local().Format(time.RFC3339),
					ended,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Session", "User", "Status", "Started", "Ended"},
				rows,
				nil,
			))
			return nil
		},
	}
}

type sessionJSON struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Status    string  `json:"status"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at,omitempty"`
}

func sessionViews(records []*audit.SessionRecord) []sessionJSON {
	views := make([]sessionJSON, 0, len(records))
	for _, record := range records {
		view := sessionJSON{
			ID:        record.ID,
			UserID:    record.UserID,
			Status:    record.Status,
			StartedAt: record.StartedAt.Format(time.RFC3339Nano),
		}
		if record.EndedAt != nil {
			ended := record.EndedAt.Format(time.RFC3339Nano)
			view.EndedAt = &ended
		}
		views = append(views, view)
	}
	return views
}
