package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goSettle/internal/simulation"
)

var simulateParallel int

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>...",
	Short: "Run settlement scenarios against isolated in-memory ledgers",
	Long: `Run one or more YAML scenarios. Each scenario gets a fresh in-memory
ledger, so scenarios run concurrently and never touch configured storage.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntVarP(&simulateParallel, "parallel", "j", runtime.NumCPU(), "maximum scenarios run at once")
}

type simulateResult struct {
	report *simulation.Report
	err    error
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	results := make([]simulateResult, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	if simulateParallel > 0 {
		g.SetLimit(simulateParallel)
	}
	for i, path := range args {
		g.Go(func() error {
			s, err := simulation.Load(path)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].report, results[i].err = simulation.Run(ctx, s, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, res := range results {
		name := args[i]
		if res.report != nil {
			name = res.report.Scenario
		}
		if res.err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", name, res.err)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d steps)\n", name, len(res.report.Steps))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(args))
	}
	return nil
}
