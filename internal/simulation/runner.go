package simulation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/core/events"
	"github.com/LeJamon/goSettle/internal/core/ledger"
	"github.com/LeJamon/goSettle/internal/core/reserve"
	"github.com/LeJamon/goSettle/internal/core/settlement"
	"github.com/LeJamon/goSettle/internal/crypto"
	"github.com/LeJamon/goSettle/internal/storage/database/memory"
)

const (
	reserveModule  reserve.ModuleID = "simulation/reserve"
	treasuryModule reserve.ModuleID = "simulation/treasury"
)

var ErrExpectation = errors.New("expectation not met")

// StepResult is the ledger state observed after a step.
type StepResult struct {
	Index    int
	Step     Step
	Err      error
	Reserve  XRPAmount.XRPAmount
	Issuance XRPAmount.XRPAmount
	Balance  XRPAmount.XRPAmount
	Events   []events.Event
}

// Report is the outcome of a scenario run.
type Report struct {
	Scenario string
	Steps    []StepResult
}

// AccountID maps a scenario label to an account. "reserve" is the reserve.
func AccountID(label string) crypto.AccountID {
	if label == ReserveAccount {
		return reserve.AccountID(reserveModule)
	}
	return crypto.CalcAccountID([]byte("sim"), []byte(label))
}

// Run executes s against a fresh in-memory ledger. It stops at the first
// unexpected step failure or unmet expectation; the report holds every step
// run so far.
func Run(ctx context.Context, s *Scenario, logger *log.Logger) (*Report, error) {
	if logger == nil {
		logger = log.Default()
	}

	rec := &events.Recorder{}
	l, err := ledger.New(ctx, memory.NewDB(), ledger.Config{
		ExistentialDeposit: s.ExistentialDeposit.Drops(),
		Sink:               rec,
		Logger:             logger,
	})
	if err != nil {
		return nil, err
	}

	var remainder settlement.RemainderHandler = settlement.BurnRemainder{}
	if s.Remainder == "treasury" {
		remainder = settlement.TreasuryRemainder{Treasury: reserve.AccountID(treasuryModule)}
	}
	engine, err := settlement.NewEngine(settlement.Config{Module: reserveModule, Remainder: remainder, Logger: logger})
	if err != nil {
		return nil, err
	}

	if s.Reserve > 0 {
		if err := l.Fund(ctx, engine.Reserve().AccountID(), s.Reserve.Drops()); err != nil {
			return nil, fmt.Errorf("failed to fund reserve: %w", err)
		}
	}
	rec.Reset()

	report := &Report{Scenario: s.Name}
	for i, step := range s.Steps {
		account := AccountID(step.Account)
		stepErr := runStep(ctx, l, engine, step, account)

		res := StepResult{Index: i, Step: step, Err: stepErr, Events: rec.Events(), Issuance: l.TotalIssuance()}
		rec.Reset()
		if res.Reserve, err = l.FreeBalance(ctx, engine.Reserve().AccountID()); err != nil {
			return report, err
		}
		if res.Balance, err = l.FreeBalance(ctx, account); err != nil {
			return report, err
		}
		report.Steps = append(report.Steps, res)

		if err := check(step, res); err != nil {
			return report, fmt.Errorf("scenario %q step %d (%s %s): %w", s.Name, i, step.Action, step.Account, err)
		}
	}

	if err := l.Audit(ctx); err != nil {
		return report, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return report, nil
}

func runStep(ctx context.Context, l *ledger.Ledger, engine *settlement.Engine, step Step, account crypto.AccountID) error {
	amount := step.Amount.Drops()
	switch step.Action {
	case ActionFund:
		return l.Fund(ctx, account, amount)
	case ActionReward:
		return l.Transact(ctx, func(tx *ledger.Tx) error {
			return engine.SettlePositive(ctx, tx, tx.Scope().Credit(account, amount))
		})
	case ActionSlash:
		return l.Transact(ctx, func(tx *ledger.Tx) error {
			debit, err := tx.Slash(ctx, account, amount)
			if err != nil {
				return err
			}
			return engine.SettleNegative(ctx, tx, debit)
		})
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidScenario, step.Action)
	}
}

func check(step Step, res StepResult) error {
	rejected := step.Expect != nil && step.Expect.Rejected
	switch {
	case res.Err != nil && !rejected:
		return res.Err
	case res.Err == nil && rejected:
		return fmt.Errorf("%w: step succeeded but was expected to be rejected", ErrExpectation)
	}
	if step.Expect == nil {
		return nil
	}

	checks := []struct {
		name string
		want *Amount
		got  XRPAmount.XRPAmount
	}{
		{"reserve", step.Expect.Reserve, res.Reserve},
		{"issuance", step.Expect.Issuance, res.Issuance},
		{"balance", step.Expect.Balance, res.Balance},
	}
	for _, c := range checks {
		if c.want != nil && c.want.Drops() != c.got {
			return fmt.Errorf("%w: %s is %s, want %s", ErrExpectation, c.name, c.got, c.want.Drops())
		}
	}
	return nil
}
