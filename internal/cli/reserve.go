package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Show the reserve account and its balance",
	Long: `Print the reserve module, its derived account ID and classic address,
the current reserve balance and total issuance.`,
	Args: cobra.NoArgs,
	RunE: runReserve,
}

func init() {
	rootCmd.AddCommand(reserveCmd)
}

func runReserve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	n, err := openNode(ctx, cfg, newLogger(cmd))
	if err != nil {
		return err
	}
	defer n.Close()

	resolver := n.engine.Reserve()
	address, err := resolver.Address()
	if err != nil {
		return err
	}
	balance, err := resolver.Balance(ctx, n.ledger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "module:   %s\n", resolver.Module())
	fmt.Fprintf(out, "account:  %s\n", resolver.AccountID())
	fmt.Fprintf(out, "address:  %s\n", address)
	fmt.Fprintf(out, "balance:  %s drops (%s XRP)\n", balance, balance.Decimal())
	fmt.Fprintf(out, "issuance: %s drops\n", n.ledger.TotalIssuance())
	return nil
}
