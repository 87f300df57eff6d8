package settlement

import "github.com/LeJamon/goSettle/internal/core/XRPAmount"

// Split divides one imbalance between the reserve and the rest of the
// system. Withdraw + Remainder always equals the imbalance magnitude.
type Split struct {
	// Withdraw is the part settled against the reserve
	Withdraw XRPAmount.XRPAmount

	// Remainder is minted (credits) or handed to the remainder handler (debits)
	Remainder XRPAmount.XRPAmount
}

// ComputeSplit draws as much of total from the reserve as its balance
// allows.
func ComputeSplit(total, reserveBalance XRPAmount.XRPAmount) Split {
	withdraw := total.Min(reserveBalance)
	return Split{Withdraw: withdraw, Remainder: total - withdraw}
}

// Total returns Withdraw + Remainder.
func (s Split) Total() XRPAmount.XRPAmount {
	return s.Withdraw + s.Remainder
}
