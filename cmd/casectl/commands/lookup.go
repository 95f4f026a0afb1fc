package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexconsult/courtcase-api/internal/models"
	"github.com/nexconsult/courtcase-api/internal/scraper"
	"github.com/nexconsult/courtcase-api/internal/services"
)

var (
	lookupType    string
	lookupNumber  string
	lookupYear    string
	lookupHistory string
)

func init() {
	lookupCmd.Flags().StringVar(&lookupType, "type", "", "Case type exactly as the portal lists it.")
	lookupCmd.Flags().StringVar(&lookupNumber, "number", "", "Case number.")
	lookupCmd.Flags().StringVar(&lookupYear, "year", "", "Case year.")
	lookupCmd.Flags().StringVar(&lookupHistory, "history", "", "Record found cases into this history database.")
	_ = lookupCmd.MarkFlagRequired("type")
	_ = lookupCmd.MarkFlagRequired("number")
	_ = lookupCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup --type <type> --number <number> --year <year>",
	Short: "Looks up one case and prints the outcome as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, launcher, err := setup()
		if err != nil {
			return err
		}

		query := models.CaseQuery{CaseType: lookupType, CaseNumber: lookupNumber, CaseYear: lookupYear}
		if query.Blank() {
			return fmt.Errorf("%w: --type, --number and --year must not be blank", services.ErrInvalidQuery)
		}

		lookup, err := scraper.NewLookup(launcher, cfg.Portal, cfg.Lookup, log)
		if err != nil {
			return err
		}

		outcome := lookup.FetchCase(cmd.Context(), query)

		if outcome.IsFound() && lookupHistory != "" {
			store, err := services.OpenHistoryStore(cmd.Context(), lookupHistory, log)
			if err != nil {
				return err
			}
			defer store.Close()
			if _, err := store.Record(cmd.Context(), query, *outcome.Record); err != nil {
				return err
			}
		}

		if err := printJSON(cmd.OutOrStdout(), models.NewLookupResponse(query, outcome)); err != nil {
			return err
		}
		if outcome.IsFailure() {
			return fmt.Errorf("lookup failed: %s", outcome.Reason)
		}
		return nil
	},
}
