package commands

import (
	"github.com/spf13/cobra"

	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/logger"
	"github.com/nexconsult/courtcase-api/internal/services"
)

var (
	historyDB    string
	historyLimit int
)

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "", "History database DSN. Defaults to HISTORY_DSN.")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to print.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--db <dsn>] [--limit <n>]",
	Short: "Prints the latest recorded lookups, newest first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewWithOutput(logLevel, "text", cmd.ErrOrStderr())

		dsn := historyDB
		if dsn == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dsn = cfg.History.DSN
		}

		store, err := services.OpenHistoryStore(cmd.Context(), dsn, log)
		if err != nil {
			return err
		}
		defer store.Close()

		queries, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), queries)
	},
}
