package indexer

import (
	"context"

	"github.com/iov-one/swap/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS offer_events (
	id         BIGSERIAL PRIMARY KEY,
	height     BIGINT      NOT NULL,
	block_time TIMESTAMPTZ NOT NULL,
	action     TEXT        NOT NULL,
	offer      TEXT        NOT NULL,
	maker      TEXT        NOT NULL,
	taker      TEXT        NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS offer_events_offer ON offer_events (offer);
CREATE INDEX IF NOT EXISTS offer_events_maker ON offer_events (maker);
`

// PostgresStore keeps offer events in the offer_events table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// Connect opens a connection pool and makes sure the schema exists.
func Connect(ctx context.Context, dsn string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse postgres dsn: %s", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open postgres pool: %s", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "ping postgres: %s", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "create schema: %s", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Insert writes all events in a single round trip.
func (s *PostgresStore) Insert(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	const query = `
		INSERT INTO offer_events (height, block_time, action, offer, maker, taker)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(query, e.Height, e.Time, e.Action, e.Offer, e.Maker, e.Taker)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range events {
		if _, err := br.Exec(); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "insert offer event: %s", err)
		}
	}
	return nil
}

// History returns all events of an offer, oldest first. An offer address
// is reused when an id is made again after being closed.
func (s *PostgresStore) History(ctx context.Context, offer string) ([]Event, error) {
	const query = `
		SELECT height, block_time, action, offer, maker, taker
		FROM offer_events
		WHERE offer = $1
		ORDER BY id
	`
	rows, err := s.pool.Query(ctx, query, offer)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "query offer events: %s", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Event, error) {
		var e Event
		err := row.Scan(&e.Height, &e.Time, &e.Action, &e.Offer, &e.Maker, &e.Taker)
		return e, err
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "scan offer events: %s", err)
	}
	return events, nil
}
