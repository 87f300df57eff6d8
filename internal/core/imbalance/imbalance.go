// Package imbalance models credit and debit tokens: amounts of currency that
// have entered or left circulation but are not yet reflected in any account.
//
// Every token belongs to a Scope. A token is consumed exactly once, by
// Resolve (its magnitude was applied to the ledger), Discard (zero magnitude
// only) or Split (replaced by two portions that are consumed in turn).
// Scope.Close fails unless every token created in it was resolved in full,
// so a token dropped on the floor surfaces as an error at commit time
// instead of as silent supply drift.
package imbalance

import (
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/crypto"
)

var (
	// ErrConsumed is returned when a token is used after it was resolved,
	// discarded or split
	ErrConsumed = errors.New("imbalance already consumed")

	// ErrNonZeroDiscard is returned when discarding a token that still
	// carries value
	ErrNonZeroDiscard = errors.New("cannot discard a non-zero imbalance")

	// ErrUnresolved is returned by Scope.Close when value is still pending
	ErrUnresolved = errors.New("unresolved imbalance")
)

// Kind tells credits from debits.
type Kind int

const (
	KindCredit Kind = iota
	KindDebit
)

func (k Kind) String() string {
	switch k {
	case KindCredit:
		return "credit"
	case KindDebit:
		return "debit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// origin tracks one token created by the scope together with every portion
// split from it.
type origin struct {
	kind     Kind
	account  crypto.AccountID
	original XRPAmount.XRPAmount
	applied  XRPAmount.XRPAmount
	live     int
}

func (o *origin) settled() bool {
	return o.live == 0 && o.applied == o.original
}

// Scope owns the tokens created during one ledger transaction.
type Scope struct {
	mu      sync.Mutex
	origins []*origin
	closed  bool
}

// NewScope returns an open scope with no tokens.
func NewScope() *Scope {
	return &Scope{}
}

// Credit creates a token for amount that must be deposited to beneficiary.
func (s *Scope) Credit(beneficiary crypto.AccountID, amount XRPAmount.XRPAmount) *Credit {
	return &Credit{token: s.newToken(KindCredit, beneficiary, amount)}
}

// Debit creates a token for amount already removed from source.
func (s *Scope) Debit(source crypto.AccountID, amount XRPAmount.XRPAmount) *Debit {
	return &Debit{token: s.newToken(KindDebit, source, amount)}
}

func (s *Scope) newToken(kind Kind, account crypto.AccountID, amount XRPAmount.XRPAmount) token {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		panic("imbalance: token created on a closed scope")
	}
	o := &origin{kind: kind, account: account, original: amount, live: 1}
	s.origins = append(s.origins, o)
	return token{scope: s, origin: o, amount: amount}
}

// Outstanding returns the credit and debit value not yet applied.
func (s *Scope) Outstanding() (credit, debit XRPAmount.XRPAmount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outstandingLocked()
}

func (s *Scope) outstandingLocked() (credit, debit XRPAmount.XRPAmount) {
	for _, o := range s.origins {
		pending := o.original - o.applied
		if o.kind == KindCredit {
			credit += pending
		} else {
			debit += pending
		}
	}
	return credit, debit
}

// Close verifies every token was resolved in full and seals the scope.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	var open int
	for _, o := range s.origins {
		if !o.settled() {
			open++
		}
	}
	if open == 0 {
		return nil
	}

	credit, debit := s.outstandingLocked()
	return fmt.Errorf("%w: %d token(s) open, %s credit and %s debit drops pending",
		ErrUnresolved, open, credit, debit)
}

// Abandon seals the scope without checking it. Used when the enclosing
// transaction is rolled back and none of its effects survive.
func (s *Scope) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.origins = nil
}

type token struct {
	scope    *Scope
	origin   *origin
	amount   XRPAmount.XRPAmount
	consumed bool
}

func (t *token) split(amount XRPAmount.XRPAmount) (token, token, error) {
	t.scope.mu.Lock()
	defer t.scope.mu.Unlock()

	if t.consumed {
		return token{}, token{}, ErrConsumed
	}
	first := amount.Min(t.amount)
	t.consumed = true
	t.origin.live++ // -1 for the receiver, +2 for the portions

	return token{scope: t.scope, origin: t.origin, amount: first},
		token{scope: t.scope, origin: t.origin, amount: t.amount - first},
		nil
}

func (t *token) resolve() error {
	t.scope.mu.Lock()
	defer t.scope.mu.Unlock()

	if t.consumed {
		return ErrConsumed
	}
	t.consumed = true
	t.origin.live--
	t.origin.applied += t.amount
	return nil
}

func (t *token) discard() error {
	t.scope.mu.Lock()
	defer t.scope.mu.Unlock()

	if t.consumed {
		return ErrConsumed
	}
	if t.amount != 0 {
		return fmt.Errorf("%w: %s drops", ErrNonZeroDiscard, t.amount)
	}
	t.consumed = true
	t.origin.live--
	return nil
}

// Credit is value that must be deposited somewhere before it is dropped.
type Credit struct {
	token
}

func (c *Credit) Amount() XRPAmount.XRPAmount  { return c.amount }
func (c *Credit) Beneficiary() crypto.AccountID { return c.origin.account }

// Owner returns the scope c was created in.
func (c *Credit) Owner() *Scope { return c.scope }

// Split consumes c and returns a portion of min(amount, c.Amount()) and the
// rest.
func (c *Credit) Split(amount XRPAmount.XRPAmount) (*Credit, *Credit, error) {
	first, rest, err := c.split(amount)
	if err != nil {
		return nil, nil, err
	}
	return &Credit{token: first}, &Credit{token: rest}, nil
}

// Resolve marks the whole of c as deposited. Callers invoke it only once the
// matching ledger mutation succeeded.
func (c *Credit) Resolve() error { return c.resolve() }

// Discard consumes a zero-value credit.
func (c *Credit) Discard() error { return c.discard() }

// Debit is value removed from an account that must be accounted for before
// it is dropped.
type Debit struct {
	token
}

func (d *Debit) Amount() XRPAmount.XRPAmount { return d.amount }
func (d *Debit) Source() crypto.AccountID     { return d.origin.account }

// Owner returns the scope d was created in.
func (d *Debit) Owner() *Scope { return d.scope }

// Split consumes d and returns a portion of min(amount, d.Amount()) and the
// rest.
func (d *Debit) Split(amount XRPAmount.XRPAmount) (*Debit, *Debit, error) {
	first, rest, err := d.split(amount)
	if err != nil {
		return nil, nil, err
	}
	return &Debit{token: first}, &Debit{token: rest}, nil
}

// Resolve marks the whole of d as accounted for.
func (d *Debit) Resolve() error { return d.resolve() }

// Discard consumes a zero-value debit.
func (d *Debit) Discard() error { return d.discard() }
