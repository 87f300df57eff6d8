package events

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/crypto"
	"github.com/google/uuid"
)

// Kind tags a settlement event.
type Kind string

const (
	// KindRewardFromPool records reward value paid out of the reserve
	KindRewardFromPool Kind = "RewardFromPool"

	// KindRewardMinted records reward value created as new supply
	KindRewardMinted Kind = "RewardMinted"

	// KindBurnedFromPool records debit value absorbed by burning reserve funds
	KindBurnedFromPool Kind = "BurnedFromPool"

	// KindDustLost records a sub-existential balance removed with its account
	KindDustLost Kind = "DustLost"
)

// Event is one resolved amount.
type Event struct {
	ID      uuid.UUID
	Kind    Kind
	Account crypto.AccountID
	Amount  XRPAmount.XRPAmount
}

// Log receives events while a ledger transaction is open.
type Log interface {
	Append(ev Event)
}

// Sink receives events once the transaction that produced them committed.
type Sink interface {
	Publish(ctx context.Context, evs []Event) error
}

// Emitter relays resolved amounts to an event log. It holds no state.
type Emitter struct{}

// Emit appends an event for amount, or nothing when amount is zero.
func (Emitter) Emit(l Log, kind Kind, account crypto.AccountID, amount XRPAmount.XRPAmount) {
	if amount.IsZero() {
		return
	}
	l.Append(Event{
		ID:      uuid.New(),
		Kind:    kind,
		Account: account,
		Amount:  amount,
	})
}

// Recorder keeps events in memory. It serves as both Log and Sink.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Append(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) Publish(ctx context.Context, evs []Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evs...)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Total sums recorded amounts of the given kind.
func (r *Recorder) Total(kind Kind) XRPAmount.XRPAmount {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total XRPAmount.XRPAmount
	for _, ev := range r.events {
		if ev.Kind == kind {
			total += ev.Amount
		}
	}
	return total
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// LogSink writes committed events to a logger.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Publish(ctx context.Context, evs []Event) error {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	for _, ev := range evs {
		logger.Printf("event %s account=%s amount=%s id=%s", ev.Kind, ev.Account, ev.Amount, ev.ID)
	}
	return nil
}

// Fanout publishes to every sink, joining their errors.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, evs []Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Publish(ctx, evs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
