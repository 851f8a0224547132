package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"verid/internal/audit"
)

func newDocumentsCommand(ctx *commandContext) *cobra.Command {
	documentsCmd := &cobra.Command{
		Use:   "documents",
		Short: "Extracted document records",
	}
	documentsCmd.AddCommand(newDocumentsListCommand(ctx))
	return documentsCmd
}

func newDocumentsListCommand(ctx *commandContext) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List extracted documents, newest first",
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

			records, err := store.Documents(cmd.Context(), userID)
			if err != nil {
				return err
			}

			if !isTerminal(cmd.OutOrStdout()) {
				return writeJSON(cmd, documentViews(records))
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No documents")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.CreatedAt.Local().Format(time.RFC3339),
					record.UserID,
					string(record.Type),
					record.Number,
					record.Status,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Time", "User", "Type", "Number", "Status"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Only documents for this user id")
	return cmd
}

type documentJSON struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Number    string `json:"number,omitempty"`
	Name      string `json:"name,omitempty"`
	DOB       string `json:"dob,omitempty"`
	Address   string `json:"address,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func documentViews(records []*audit.DocumentRecord) []documentJSON {
	views := make([]documentJSON, 0, len(records))
	for _, record := range records {
		views = append(views, documentJSON{
			ID:        record.ID,
			UserID:    record.UserID,
			Type:      string(record.Type),
			Number:    record.Number,
			Name:      record.Name,
			DOB:       record.DOB,
			Address:   record.Address,
			Status:    record.Status,
			CreatedAt: record.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return views
}
