package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/smart-parking/internal/model"
)

// LoadRepo persists occupancy snapshots.  One sample is appended after
// every arrival and departure, synchronously with the mutation that
// triggered it, never batched or dropped.
type LoadRepo struct {
    db *sql.DB
}

// NewLoadRepo returns a new LoadRepo bound to the given database.
func NewLoadRepo(db *sql.DB) *LoadRepo { return &LoadRepo{db: db} }

// Insert appends one load sample.
func (r *LoadRepo) Insert(ctx context.Context, s model.LoadSample) error {
    const q = `INSERT INTO parking_load_history (ts, occupied_spots, total_spots, load_percentage)
               VALUES (?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q, s.Timestamp.UTC(), s.OccupiedSpots, s.TotalSpots, s.LoadPercentage)
    return err
}

// VehicleBucket aggregates the load samples that share one formatted
// time label: sample count plus average occupancy and load percentage.
type VehicleBucket struct {
    Count         int
    OccupiedSpots float64
    LoadPct       float64
}

// VehicleBuckets groups load samples between start and end by their
// timestamp formatted with the given MySQL DATE_FORMAT pattern.
func (r *LoadRepo) VehicleBuckets(ctx context.Context, start, end time.Time, format string) (map[string]VehicleBucket, error) {
    const q = `SELECT DATE_FORMAT(ts, ?) AS label,
                      COUNT(*),
                      COALESCE(AVG(occupied_spots), 0),
                      COALESCE(AVG(load_percentage), 0)
               FROM parking_load_history
               WHERE ts >= ? AND ts <= ?
               GROUP BY label`
    rows, err := r.db.QueryContext(ctx, q, format, start.UTC(), end.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[string]VehicleBucket)
    for rows.Next() {
        var label string
        var b VehicleBucket
        if err := rows.Scan(&label, &b.Count, &b.OccupiedSpots, &b.LoadPct); err != nil {
            return nil, err
        }
        out[label] = b
    }
    return out, rows.Err()
}
