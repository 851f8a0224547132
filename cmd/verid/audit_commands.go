package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"verid/internal/audit"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Verification decision audit trail",
	}
	auditCmd.AddCommand(newAuditListCommand(ctx))
	return auditCmd
}

func newAuditListCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audited decisions, newest first",
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

			decisions, err := store.Decisions(cmd.Context(), sessionID, limit)
			if err != nil {
				return err
			}

			if !isTerminal(cmd.OutOrStdout()) {
				return writeJSON(cmd, decisionViews(decisions))
			}
			if len(decisions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audited decisions")
				return nil
			}
			rows := make([][]string, 0, len(decisions))
			for _, decision := range decisions {
				rows = append(rows, []string{
					decision.CreatedAt.Local().Format(time.RFC3339),
					decision.SessionID,
					decision.UserID,
					decision.Outcome,
					fmt.Sprintf("%.2f", decision.Confidence),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Time", "Session", "User", "Outcome", "Confidence"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Only decisions for this session id")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum decisions to show (0 for all)")
	return cmd
}

type decisionJSON struct {
	ID         string  `json:"id"`
	SessionID  string  `json:"session_id"`
	UserID     string  `json:"user_id"`
	Outcome    string  `json:"outcome"`
	Confidence float64 `json:"confidence"`
	CreatedAt  string  `json:"created_at"`
}

func decisionViews(decisions []*audit.Decision) []decisionJSON {
	views := make([]decisionJSON, 0, len(decisions))
	for _, decision := range decisions {
		views = append(views, decisionJSON{
			ID:         decision.ID,
			SessionID:  decision.SessionID,
			UserID:     decision.UserID,
			Outcome:    decision.Outcome,
			Confidence: decision.Confidence,
			CreatedAt:  decision.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return views
}
