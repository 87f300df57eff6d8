package simulation

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/core/events"
)

var quiet = log.New(io.Discard, "", 0)

func TestRunTestdata(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := Load(path)
			require.NoError(t, err)

			report, err := Run(context.Background(), s, quiet)
			require.NoError(t, err)
			assert.Len(t, report.Steps, len(s.Steps))
		})
	}
}

func TestRunRecordsEvents(t *testing.T) {
	s, err := Parse([]byte(`
name: partial reserve
existential_deposit: 1
reserve: 20
steps:
  - action: reward
    account: validator
    amount: 50
    expect:
      reserve: 0
      issuance: 50
      balance: 50
`))
	require.NoError(t, err)

	report, err := Run(context.Background(), s, quiet)
	require.NoError(t, err)
	require.Len(t, report.Steps, 1)

	totals := map[events.Kind]XRPAmount.XRPAmount{}
	for _, ev := range report.Steps[0].Events {
		totals[ev.Kind] += ev.Amount
	}
	assert.Equal(t, XRPAmount.XRPAmount(20), totals[events.KindRewardFromPool])
	assert.Equal(t, XRPAmount.XRPAmount(30), totals[events.KindRewardMinted])
}

func TestRunExpectationMismatch(t *testing.T) {
	s, err := Parse([]byte(`
reserve: 10
steps:
  - action: reward
    account: validator
    amount: 5
    expect:
      reserve: 10
`))
	require.NoError(t, err)

	report, err := Run(context.Background(), s, quiet)
	require.ErrorIs(t, err, ErrExpectation)
	require.Len(t, report.Steps, 1)
	assert.Equal(t, XRPAmount.XRPAmount(5), report.Steps[0].Reserve)
}

func TestRunRejectedStep(t *testing.T) {
	s, err := Parse([]byte(`
existential_deposit: 10
steps:
  - action: reward
    account: validator
    amount: 5
    expect:
      rejected: true
      issuance: 0
      balance: 0
  - action: fund
    account: validator
    amount: 10
    expect:
      balance: 10
`))
	require.NoError(t, err)

	report, err := Run(context.Background(), s, quiet)
	require.NoError(t, err)
	require.Len(t, report.Steps, 2)
	assert.Error(t, report.Steps[0].Err)
	assert.Empty(t, report.Steps[0].Events)
}

func TestRunUnexpectedFailure(t *testing.T) {
	s, err := Parse([]byte(`
existential_deposit: 10
steps:
  - action: fund
    account: validator
    amount: 5
`))
	require.NoError(t, err)

	_, err = Run(context.Background(), s, quiet)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrExpectation)
}

func TestParseAmounts(t *testing.T) {
	s, err := Parse([]byte(`
existential_deposit: 0.5xrp
reserve: "1xrp"
steps: []
`))
	require.NoError(t, err)
	assert.Equal(t, XRPAmount.XRPAmount(500_000), s.ExistentialDeposit.Drops())
	assert.Equal(t, XRPAmount.XRPAmount(XRPAmount.DropsPerXRP), s.Reserve.Drops())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown action", doc: "steps:\n  - action: transfer\n    account: a\n    amount: 1\n"},
		{name: "missing account", doc: "steps:\n  - action: fund\n    amount: 1\n"},
		{name: "unknown remainder", doc: "remainder: keep\n"},
		{name: "negative amount", doc: "reserve: -3\n"},
		{name: "amount not scalar", doc: "reserve: [1]\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
		})
	}
}

func TestAccountID(t *testing.T) {
	assert.Equal(t, AccountID("alice"), AccountID("alice"))
	assert.NotEqual(t, AccountID("alice"), AccountID("bob"))
	assert.NotEqual(t, AccountID("alice"), AccountID(ReserveAccount))
}
