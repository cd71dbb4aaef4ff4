package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/groblegark/launchfeed/internal/model"
	"github.com/groblegark/launchfeed/internal/store"
)

// launchColumns is the column list used for SELECT statements on the
// raw_launches table.
const launchColumns = `launch_id, name, launched_at, outcome, payload_ids,
	total_payload_mass_kg, site_id, static_fire_at`

// snapshotColumns is the column list used for SELECT statements on the
// launch_snapshots table.
const snapshotColumns = `id, total_launches, successful_launches, failed_launches,
	success_rate, earliest_launch, latest_launch, site_count,
	avg_payload_mass_kg, avg_lead_time_hours, last_processed_at,
	kind, batch_size, run_id, created_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryHighWaterMark(ctx context.Context, db executor) (time.Time, error) {
	row := db.QueryRowContext(ctx,
		`SELECT last_fetched_at FROM ingestion_state ORDER BY updated_at DESC, id DESC LIMIT 1`)

	var t time.Time
	if err := row.Scan(&t); err != nil {
		if err == sql.ErrNoRows {
			return store.Epoch, nil
		}
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// querySetHighWaterMark appends a new ingestion_state row; history is kept
// so prior marks remain auditable.
func querySetHighWaterMark(ctx context.Context, db executor, t time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO ingestion_state (last_fetched_at) VALUES ($1)`, t.UTC())
	return err
}

func queryLatestLaunch(ctx context.Context, db executor) (*model.Launch, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+launchColumns+` FROM raw_launches ORDER BY launched_at DESC LIMIT 1`)

	l, err := scanLaunch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// queryInsertLaunches performs the idempotent batch insert. The inserted
// count is derived from the table's before/after row count; with
// ON CONFLICT DO NOTHING the delta is exactly the number of non-duplicate
// rows, provided no concurrent writer is active.
func queryInsertLaunches(ctx context.Context, db executor, launches []*model.Launch) (int, error) {
	var before int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM raw_launches`).Scan(&before); err != nil {
		return 0, err
	}

	for _, l := range launches {
		_, err := db.ExecContext(ctx, `
			INSERT INTO raw_launches (
				launch_id, name, launched_at, outcome, payload_ids,
				total_payload_mass_kg, site_id, static_fire_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (launch_id) DO NOTHING`,
			l.ID,
			nullString(l.Name),
			l.LaunchedAt.UTC(),
			string(l.Outcome),
			jsonbStrings(l.PayloadIDs),
			nullFloatPtr(l.TotalPayloadMassKg),
			nullString(l.SiteID),
			nullTimePtr(l.StaticFireAt),
		)
		if err != nil {
			return 0, err
		}
	}

	var after int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM raw_launches`).Scan(&after); err != nil {
		return 0, err
	}
	return after - before, nil
}

func queryLaunchStats(ctx context.Context, db executor) (*store.LaunchStats, error) {
	row := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE outcome = 'success'),
			COUNT(*) FILTER (WHERE outcome = 'failure'),
			MIN(launched_at),
			MAX(launched_at),
			COUNT(DISTINCT site_id) FILTER (WHERE site_id IS NOT NULL),
			AVG(total_payload_mass_kg) FILTER (WHERE total_payload_mass_kg > 0),
			AVG(EXTRACT(EPOCH FROM (launched_at - static_fire_at)) / 3600)
				FILTER (WHERE static_fire_at IS NOT NULL AND static_fire_at <= launched_at),
			COUNT(*) FILTER (WHERE static_fire_at IS NOT NULL AND static_fire_at > launched_at)
		FROM raw_launches`)

	var (
		stats    store.LaunchStats
		earliest sql.NullTime
		latest   sql.NullTime
		avgMass  sql.NullFloat64
		avgLead  sql.NullFloat64
	)
	err := row.Scan(
		&stats.Total,
		&stats.Successful,
		&stats.Failed,
		&earliest,
		&latest,
		&stats.SiteCount,
		&avgMass,
		&avgLead,
		&stats.LeadTimeAnomalies,
	)
	if err != nil {
		return nil, err
	}

	if earliest.Valid {
		t := earliest.Time.UTC()
		stats.Earliest = &t
	}
	if latest.Valid {
		t := latest.Time.UTC()
		stats.Latest = &t
	}
	if avgMass.Valid {
		v := avgMass.Float64
		stats.AvgPayloadMassKg = &v
	}
	if avgLead.Valid {
		v := avgLead.Float64
		stats.AvgLeadTimeHours = &v
	}

	return &stats, nil
}

func querySiteCount(ctx context.Context, db executor) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT site_id) FROM raw_launches WHERE site_id IS NOT NULL`).Scan(&n)
	return n, err
}

func queryAveragePayloadMass(ctx context.Context, db executor) (*float64, error) {
	var avg sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT AVG(total_payload_mass_kg) FROM raw_launches
		 WHERE total_payload_mass_kg IS NOT NULL AND total_payload_mass_kg > 0`).Scan(&avg)
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}

func queryAverageLeadTimeHours(ctx context.Context, db executor) (*float64, error) {
	var avg sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT AVG(EXTRACT(EPOCH FROM (launched_at - static_fire_at)) / 3600)
		 FROM raw_launches
		 WHERE static_fire_at IS NOT NULL AND static_fire_at <= launched_at`).Scan(&avg)
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}

func queryInsertSnapshot(ctx context.Context, db executor, s *model.Snapshot) (int64, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO launch_snapshots (
			total_launches, successful_launches, failed_launches,
			success_rate, earliest_launch, latest_launch, site_count,
			avg_payload_mass_kg, avg_lead_time_hours, last_processed_at,
			kind, batch_size, run_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING id`,
		s.TotalLaunches,
		s.SuccessfulLaunches,
		s.FailedLaunches,
		nullFloatPtr(s.SuccessRate),
		nullTimePtr(s.EarliestLaunch),
		nullTimePtr(s.LatestLaunch),
		s.SiteCount,
		nullFloatPtr(s.AvgPayloadMassKg),
		nullFloatPtr(s.AvgLeadTimeHours),
		nullTimePtr(s.LastProcessedAt),
		string(s.Kind),
		s.BatchSize,
		nullString(s.RunID),
		s.CreatedAt.UTC(),
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func queryLatestSnapshot(ctx context.Context, db executor) (*model.Snapshot, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM launch_snapshots
		 ORDER BY created_at DESC, id DESC LIMIT 1`)

	s, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func querySnapshotHistory(ctx context.Context, db executor, limit int) ([]*model.Snapshot, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM launch_snapshots
		 ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSnapshots(rows)
}
