package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goSettle/internal/config"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "settled",
	Short: "settled - reserve-first imbalance settlement",
	Long: `settled resolves reward credits and slash debits against a module-owned
reserve account. Rewards are paid from the reserve before any new supply is
minted; slashes burn reserve funds before the remainder policy applies.`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log ledger and settlement activity to stderr")
}

// loadConfig reads --conf, defaults and SETTLED_ environment overrides
func loadConfig() (*config.Config, error) {
	return config.LoadConfig(configFile)
}

func newLogger(cmd *cobra.Command) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "settled: ", log.LstdFlags)
}
