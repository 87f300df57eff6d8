package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goSettle/internal/storage/relationaldb"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List journaled settlement events",
	Args:  cobra.NoArgs,
	RunE:  runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 0, "maximum entries to list (0 lists all)")
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.JournalEnabled() {
		return fmt.Errorf("no journal configured: set journal.driver and journal.dsn")
	}

	ctx := cmd.Context()
	j, err := relationaldb.Open(ctx, journalConfig(cfg), newLogger(cmd))
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(ctx, journalLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(out, "%6d  %-15s %s  %s  %s\n", e.Seq, e.Event.Kind, e.Address, e.Event.Amount, e.Event.ID)
	}
	return nil
}
