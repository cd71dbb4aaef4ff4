package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/groblegark/launchfeed/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanLaunch scans a single row into a model.Launch.
// The row must contain columns in the order defined by launchColumns.
func scanLaunch(row scannable) (*model.Launch, error) {
	var l model.Launch
	var (
		name         sql.NullString
		outcome      string
		payloadIDs   []byte
		mass         sql.NullFloat64
		siteID       sql.NullString
		staticFireAt sql.NullTime
	)

	err := row.Scan(
		&l.ID,
		&name,
		&l.LaunchedAt,
		&outcome,
		&payloadIDs,
		&mass,
		&siteID,
		&staticFireAt,
	)
	if err != nil {
		return nil, err
	}

	l.Name = name.String
	l.LaunchedAt = l.LaunchedAt.UTC()
	l.Outcome = model.Outcome(outcome)
	l.SiteID = siteID.String

	l.PayloadIDs = []string{}
	if len(payloadIDs) > 0 {
		if err := json.Unmarshal(payloadIDs, &l.PayloadIDs); err != nil {
			return nil, err
		}
	}
	if mass.Valid {
		v := mass.Float64
		l.TotalPayloadMassKg = &v
	}
	if staticFireAt.Valid {
		t := staticFireAt.Time.UTC()
		l.StaticFireAt = &t
	}

	return &l, nil
}

// scanSnapshot scans a single row into a model.Snapshot.
// The row must contain columns in the order defined by snapshotColumns.
func scanSnapshot(row scannable) (*model.Snapshot, error) {
	var s model.Snapshot
	var (
		successRate     sql.NullFloat64
		earliest        sql.NullTime
		latest          sql.NullTime
		avgMass         sql.NullFloat64
		avgLead         sql.NullFloat64
		lastProcessedAt sql.NullTime
		kind            string
		runID           sql.NullString
	)

	err := row.Scan(
		&s.ID,
		&s.TotalLaunches,
		&s.SuccessfulLaunches,
		&s.FailedLaunches,
		&successRate,
		&earliest,
		&latest,
		&s.SiteCount,
		&avgMass,
		&avgLead,
		&lastProcessedAt,
		&kind,
		&s.BatchSize,
		&runID,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Kind = model.SnapshotKind(kind)
	s.RunID = runID.String
	s.CreatedAt = s.CreatedAt.UTC()

	if successRate.Valid {
		v := successRate.Float64
		s.SuccessRate = &v
	}
	if earliest.Valid {
		t := earliest.Time.UTC()
		s.EarliestLaunch = &t
	}
	if latest.Valid {
		t := latest.Time.UTC()
		s.LatestLaunch = &t
	}
	if avgMass.Valid {
		v := avgMass.Float64
		s.AvgPayloadMassKg = &v
	}
	if avgLead.Valid {
		v := avgLead.Float64
		s.AvgLeadTimeHours = &v
	}
	if lastProcessedAt.Valid {
		t := lastProcessedAt.Time.UTC()
		s.LastProcessedAt = &t
	}

	return &s, nil
}

// scanSnapshots scans multiple rows into a slice of model.Snapshot pointers.
func scanSnapshots(rows *sql.Rows) ([]*model.Snapshot, error) {
	var snaps []*model.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snaps, nil
}

// nullTimePtr converts a *time.Time to a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// nullFloatPtr converts a *float64 to a sql.NullFloat64.
func nullFloatPtr(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbStrings marshals a string slice for a JSONB column; nil becomes
// an empty JSON array.
func jsonbStrings(ids []string) []byte {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return []byte("[]")
	}
	return data
}
