package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"verid/internal/audit"
	"verid/internal/config"
	"verid/internal/docextract"
	"verid/internal/docscan"
	"verid/internal/imaging"
	"verid/internal/ocr/tesseract"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var userID string
	var rectifiedOut string

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Locate, rectify, and extract fields from a document photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func(cfg *config.Config) error {
				frame, err := imaging.DecodeFile(args[0])
				if err != nil {
					return fmt.Errorf("read frame: %w", err)
				}

				logger := ctx.ensureLogger()
				scanner := docscan.NewScanner(cfg, logger)
				extractor := docextract.NewExtractor(tesseract.New(), cfg, logger)

				rectified, found := scanner.LocateAndRectify(frame)
				if !found {
					fmt.Fprintln(cmd.OutOrStdout(), "No document detected in frame")
					return nil
				}
				if rectifiedOut != "" {
					encoded, err := imaging.EncodePNG(rectified)
					if err != nil {
						return fmt.Errorf("encode rectified image: %w", err)
					}
					if err := os.WriteFile(rectifiedOut, encoded, 0o644); err != nil {
						return fmt.Errorf("write rectified image: %w", err)
					}
				}

				result, err := extractor.ClassifyAndExtract(cmd.Context(), rectified)
				if err != nil {
					return err
				}
				if result.Type == docextract.TypeUnknown {
					fmt.Fprintln(cmd.OutOrStdout(), "Document type could not be identified")
					return nil
				}

				if userID != "" {
					store, err := audit.Open(cfg)
					if err != nil {
						return err
					}
					defer store.Close()
					record, err := store.SaveDocument(cmd.Context(), userID, result)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Saved document %s for review\n", record.ID)
				}

				return printExtraction(cmd, result)
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Persist the extraction for this user id")
	cmd.Flags().StringVar(&rectifiedOut, "rectified-out", "", "Write the rectified document image to this PNG path")
	return cmd
}

func printExtraction(cmd *cobra.Command, result docextract.Result) error {
	if !isTerminal(cmd.OutOrStdout()) {
		return writeJSON(cmd, extractionView(result))
	}

	rows := [][]string{
		{"Type", string(result.Type)},
		{"Number", fieldValue(result.Fields.Number)},
		{"Name", fieldValue(result.Fields.Name)},
		{"DOB", fieldValue(result.Fields.DOB)},
	}
	if result.Type == docextract.TypeAadhaar {
		rows = append(rows, []string{"Address", fieldValue(result.Fields.Address)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
	return nil
}

func fieldValue(f docextract.Field) string {
	if !f.Present {
		return "(absent)"
	}
	return strings.ReplaceAll(f.Value, "\n", " ")
}

type extractionJSON struct {
	Type    string  `json:"type"`
	Number  *string `json:"number,omitempty"`
	Name    *string `json:"name,omitempty"`
	DOB     *string `json:"dob,omitempty"`
	Address *string `json:"address,omitempty"`
}

func extractionView(result docextract.Result) extractionJSON {
	view := extractionJSON{Type: string(result.Type)}
	view.Number = fieldPtr(result.Fields.Number)
	view.Name = fieldPtr(result.Fields.Name)
	view.DOB = fieldPtr(result.Fields.DOB)
	view.Address = fieldPtr(result.Fields.Address)
	return view
}

func fieldPtr(f docextract.Field) *string {
	if !f.Present {
		return nil
	}
	value := f.Value
	return &value
}
