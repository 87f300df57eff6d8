package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goSettle/internal/config"
	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/core/ledger"
	"github.com/LeJamon/goSettle/internal/crypto"
)

var rewardCmd = &cobra.Command{
	Use:   "reward <account> <amount>",
	Short: "Credit a reward, paying from the reserve first",
	Long: `Credit amount to account. The reserve pays as much as it holds and the
rest is minted. Accounts are classic addresses or hex account IDs; amounts
are drops or XRP with an "xrp" suffix.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettle(cmd, args, func(n *node, tx *ledger.Tx, account crypto.AccountID, amount XRPAmount.XRPAmount) error {
			return n.engine.SettlePositive(cmd.Context(), tx, tx.Scope().Credit(account, amount))
		})
	},
}

var slashCmd = &cobra.Command{
	Use:   "slash <account> <amount>",
	Short: "Slash an account, burning from the reserve first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettle(cmd, args, func(n *node, tx *ledger.Tx, account crypto.AccountID, amount XRPAmount.XRPAmount) error {
			debit, err := tx.Slash(cmd.Context(), account, amount)
			if err != nil {
				return err
			}
			return n.engine.SettleNegative(cmd.Context(), tx, debit)
		})
	},
}

func init() {
	rootCmd.AddCommand(rewardCmd)
	rootCmd.AddCommand(slashCmd)
}

type settleFunc func(n *node, tx *ledger.Tx, account crypto.AccountID, amount XRPAmount.XRPAmount) error

func runSettle(cmd *cobra.Command, args []string, fn settleFunc) error {
	account, err := config.ParseAccount(args[0])
	if err != nil {
		return err
	}
	amount, err := XRPAmount.ParseXRPAmount(args[1])
	if err != nil {
		return err
	}

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

	if err := n.ledger.Transact(ctx, func(tx *ledger.Tx) error {
		return fn(n, tx, account, amount)
	}); err != nil {
		return fmt.Errorf("%s rejected: %w", cmd.Name(), err)
	}

	balance, err := n.ledger.FreeBalance(ctx, account)
	if err != nil {
		return err
	}
	reserveBalance, err := n.engine.Reserve().Balance(ctx, n.ledger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "account:  %s\n", balance)
	fmt.Fprintf(out, "reserve:  %s\n", reserveBalance)
	fmt.Fprintf(out, "issuance: %s\n", n.ledger.TotalIssuance())
	return nil
}
