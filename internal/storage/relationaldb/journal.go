package relationaldb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"
	"github.com/google/uuid"
	_ "github.com/lib/pq"   // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/core/events"
	"github.com/LeJamon/goSettle/internal/crypto"
)

// Entry is one journaled settlement event.
type Entry struct {
	Seq        int64
	Event      events.Event
	Address    string
	RecordedAt time.Time
}

// Journal is an append-only SQL record of committed settlement events. It
// implements events.Sink.
type Journal struct {
	db     *sql.DB
	driver string
	logger *log.Logger
	now    func() time.Time
}

var _ events.Sink = (*Journal)(nil)

// Open connects to the configured database and creates the journal table.
func Open(ctx context.Context, cfg *Config, logger *log.Logger) (*Journal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, newError("open", "invalid configuration", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, newError("open", "failed to open database connection", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DefaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, newError("open", "failed to ping database", fmt.Errorf("%w: %v", ErrConnectionFailed, err))
	}

	j := &Journal{db: db, driver: cfg.Driver, logger: logger, now: time.Now}
	if err := j.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) initSchema(ctx context.Context) error {
	seqColumn := "seq INTEGER PRIMARY KEY AUTOINCREMENT"
	if j.driver == DriverPostgres {
		seqColumn = "seq BIGSERIAL PRIMARY KEY"
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS settlement_events (
			` + seqColumn + `,
			id          TEXT NOT NULL UNIQUE,
			kind        TEXT NOT NULL,
			account     TEXT NOT NULL,
			address     TEXT NOT NULL,
			amount      TEXT NOT NULL,
			recorded_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS settlement_events_kind ON settlement_events (kind)`,
	}
	for _, stmt := range schema {
		if _, err := j.db.ExecContext(ctx, stmt); err != nil {
			return newError("init_schema", "failed to create journal schema", err)
		}
	}
	return nil
}

// Publish appends evs in a single database transaction.
func (j *Journal) Publish(ctx context.Context, evs []events.Event) error {
	if j.db == nil {
		return ErrDatabaseClosed
	}
	if len(evs) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return newError("publish", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, j.rebind(
		`INSERT INTO settlement_events (id, kind, account, address, amount, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return newError("publish", "failed to prepare insert", err)
	}
	defer stmt.Close()

	recordedAt := j.now().UnixNano()
	for _, ev := range evs {
		id := ev.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		address, err := addresscodec.EncodeAccountIDToClassicAddress(ev.Account[:])
		if err != nil {
			return newError("publish", "failed to encode account", err)
		}
		if _, err := stmt.ExecContext(ctx, id.String(), string(ev.Kind), ev.Account.String(), address, ev.Amount.String(), recordedAt); err != nil {
			return newError("publish", "failed to insert event", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return newError("publish", "failed to commit", err)
	}
	return nil
}

// List returns up to limit entries, oldest first. A limit of 0 returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if j.db == nil {
		return nil, ErrDatabaseClosed
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	query := `SELECT seq, id, kind, account, address, amount, recorded_at FROM settlement_events ORDER BY seq`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, j.rebind(query), args...)
	if err != nil {
		return nil, newError("list", "failed to query events", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                      Entry
			id, kind, account, amt string
			recordedAt             int64
		)
		if err := rows.Scan(&e.Seq, &id, &kind, &account, &e.Address, &amt, &recordedAt); err != nil {
			return nil, newError("list", "failed to scan event", err)
		}
		if e.Event, err = decodeEvent(id, kind, account, amt); err != nil {
			return nil, newError("list", "failed to decode event", err)
		}
		e.RecordedAt = time.Unix(0, recordedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, newError("list", "failed to iterate events", err)
	}
	return entries, nil
}

// Totals sums journaled amounts per event kind.
func (j *Journal) Totals(ctx context.Context) (map[events.Kind]XRPAmount.XRPAmount, error) {
	entries, err := j.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	totals := make(map[events.Kind]XRPAmount.XRPAmount)
	for _, e := range entries {
		sum, err := totals[e.Event.Kind].Add(e.Event.Amount)
		if err != nil {
			return nil, newError("totals", "overflow summing events", err)
		}
		totals[e.Event.Kind] = sum
	}
	return totals, nil
}

func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// rebind rewrites ? placeholders to $n for postgres.
func (j *Journal) rebind(query string) string {
	if j.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func decodeEvent(id, kind, account, amount string) (events.Event, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return events.Event{}, fmt.Errorf("%w: id %q", ErrInvalidDataFormat, id)
	}
	accountID, err := crypto.AccountIDFromHex(account)
	if err != nil {
		return events.Event{}, fmt.Errorf("%w: %v", ErrInvalidDataFormat, err)
	}
	drops, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return events.Event{}, fmt.Errorf("%w: amount %q", ErrInvalidDataFormat, amount)
	}
	return events.Event{
		ID:      parsedID,
		Kind:    events.Kind(kind),
		Account: accountID,
		Amount:  XRPAmount.XRPAmount(drops),
	}, nil
}
