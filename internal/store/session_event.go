package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionEventColumns = []string{
	"sequence", "timestamp", "session_id", "action", "kind",
	"stage", "region", "stake", "total_secs", "elapsed_secs",
}

func (s *Store) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(sessionEventsTable).
		Columns(sessionEventColumns...).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.Action, data.Kind,
			data.Stage, data.Region, data.Stake, data.TotalSecs, data.ElapsedSecs,
		).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (s *Store) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error) {
	b := builder()
	sel := b.Select(sessionEventColumns...).
		From(b.Table(sessionEventsTable)).
		OrderBy(entsql.Desc("sequence"))

	if opts.After > 0 {
		sel = sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel = sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel = sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var records []SessionEventRecord
	for rows.Next() {
		var r SessionEventRecord
		if err := rows.Scan(
			&r.Sequence, &r.Timestamp, &r.SessionID, &r.Action, &r.Kind,
			&r.Stage, &r.Region, &r.Stake, &r.TotalSecs, &r.ElapsedSecs,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}
	return records, nil
}

func (s *Store) SessionTotals(ctx context.Context) (SessionTotals, error) {
	b := builder()
	query, args := b.Select(
		"action",
		entsql.As(entsql.Count("*"), "n"),
		entsql.As(entsql.Sum("total_secs"), "secs"),
	).
		From(b.Table(sessionEventsTable)).
		GroupBy("action").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return SessionTotals{}, fmt.Errorf("query session totals: %w", err)
	}
	defer rows.Close()

	var totals SessionTotals
	for rows.Next() {
		var (
			action string
			n      int
			secs   sql.NullInt64
		)
		if err := rows.Scan(&action, &n, &secs); err != nil {
			return SessionTotals{}, fmt.Errorf("scan session totals: %w", err)
		}
		switch action {
		case ActionStart:
			totals.Started = n
		case ActionComplete:
			totals.Completed = n
			totals.FocusSecs = int(secs.Int64)
		case ActionAbandon:
			totals.Abandoned = n
		}
	}
	if err := rows.Err(); err != nil {
		return SessionTotals{}, fmt.Errorf("iterate session totals: %w", err)
	}
	return totals, nil
}
