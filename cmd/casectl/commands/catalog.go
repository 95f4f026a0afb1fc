package commands

import (
	"github.com/spf13/cobra"

	"github.com/nexconsult/courtcase-api/internal/scraper"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Prints the case types and years the portal search form offers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, launcher, err := setup()
		if err != nil {
			return err
		}

		catalog, err := scraper.NewCatalogFetcher(launcher, cfg.Portal, log).FetchCatalog(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), catalog)
	},
}
