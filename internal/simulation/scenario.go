// Package simulation replays YAML scenarios of funding, reward and slash
// steps against an isolated in-memory ledger.
package simulation

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
)

// Step actions
const (
	ActionFund   = "fund"
	ActionReward = "reward"
	ActionSlash  = "slash"
)

// ReserveAccount is the label that refers to the reserve account
const ReserveAccount = "reserve"

var ErrInvalidScenario = errors.New("invalid scenario")

// Amount is an XRPAmount that decodes from drops (100) or XRP ("1.5xrp").
type Amount XRPAmount.XRPAmount

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	v, err := XRPAmount.ParseXRPAmount(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*a = Amount(v)
	return nil
}

func (a Amount) Drops() XRPAmount.XRPAmount {
	return XRPAmount.XRPAmount(a)
}

// Scenario is a named sequence of steps run against a fresh ledger.
type Scenario struct {
	Name               string `yaml:"name"`
	ExistentialDeposit Amount `yaml:"existential_deposit"`
	Reserve            Amount `yaml:"reserve"`
	// Remainder is "burn" (default) or "treasury"
	Remainder string `yaml:"remainder"`
	Steps     []Step `yaml:"steps"`
}

// Step is one ledger transaction.
type Step struct {
	Action  string  `yaml:"action"`
	Account string  `yaml:"account"`
	Amount  Amount  `yaml:"amount"`
	Expect  *Expect `yaml:"expect,omitempty"`
}

// Expect holds the post-step assertions. Unset fields are not checked.
type Expect struct {
	Reserve  *Amount `yaml:"reserve,omitempty"`
	Issuance *Amount `yaml:"issuance,omitempty"`
	// Balance is the step account's balance
	Balance  *Amount `yaml:"balance,omitempty"`
	Rejected bool    `yaml:"rejected,omitempty"`
}

// Load reads and parses a scenario file. The file name is used when the
// scenario has no name.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks actions, accounts and the remainder policy.
func (s *Scenario) Validate() error {
	switch s.Remainder {
	case "", "burn", "treasury":
	default:
		return fmt.Errorf("%w: unknown remainder %q", ErrInvalidScenario, s.Remainder)
	}
	for i, step := range s.Steps {
		switch step.Action {
		case ActionFund, ActionReward, ActionSlash:
		default:
			return fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidScenario, i, step.Action)
		}
		if step.Account == "" {
			return fmt.Errorf("%w: step %d: account is required", ErrInvalidScenario, i)
		}
	}
	return nil
}
