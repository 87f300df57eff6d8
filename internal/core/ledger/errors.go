package ledger

import "errors"

var (
	// ErrInsufficientBalance is returned when an account cannot cover a debit
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrExistentialDeposit is returned when a transfer would create an
	// account with less than the existential deposit
	ErrExistentialDeposit = errors.New("amount below existential deposit")

	// ErrKeepAlive is returned when a KeepAlive transfer would reap the source
	ErrKeepAlive = errors.New("transfer would reap the source account")

	// ErrTxDone is returned when a transaction is used after it finished
	ErrTxDone = errors.New("ledger transaction already finished")

	// ErrSupplyMismatch is returned by Audit when balances and issuance disagree
	ErrSupplyMismatch = errors.New("account balances do not sum to total issuance")
)
