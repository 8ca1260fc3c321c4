package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/smart-parking/internal/model"
)

// HistoryRepo persists the denormalized departure records and serves
// the revenue and duration aggregations over them.  The table is
// append-only: rows are written once at departure and never updated.
type HistoryRepo struct {
    db *sql.DB
}

// NewHistoryRepo returns a new HistoryRepo bound to the given database.
func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

// Insert appends one closed-stay record.
func (r *HistoryRepo) Insert(ctx context.Context, rec model.HistoryRecord) error {
    const q = `INSERT INTO parking_history
               (vehicle_id, vehicle_type, spot_id, entry_time, exit_time, duration_minutes, cost)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q, rec.VehicleID, rec.VehicleType, rec.SpotID,
        rec.EntryTime.UTC(), rec.ExitTime.UTC(), rec.DurationMinutes, rec.Cost)
    return err
}

// TotalRevenue sums the cost of every departure ever recorded.  Returns
// zero when the history is empty.
func (r *HistoryRepo) TotalRevenue(ctx context.Context) (float64, error) {
    var total float64
    err := r.db.QueryRowContext(ctx,
        `SELECT COALESCE(SUM(cost), 0) FROM parking_history`).Scan(&total)
    return total, err
}

// RevenueBucket aggregates departures that share one formatted
// time label: total revenue and departure count.
type RevenueBucket struct {
    Revenue float64
    Count   int
}

// RevenueBuckets groups departures between start and end by their exit
// time formatted with the given MySQL DATE_FORMAT pattern.  The label
// precision doubles as the grouping key, so the caller must use the
// same pattern when generating bucket boundaries.
func (r *HistoryRepo) RevenueBuckets(ctx context.Context, start, end time.Time, format string) (map[string]RevenueBucket, error) {
    const q = `SELECT DATE_FORMAT(exit_time, ?) AS label, COALESCE(SUM(cost), 0), COUNT(*)
               FROM parking_history
               WHERE exit_time >= ? AND exit_time <= ?
               GROUP BY label`
    rows, err := r.db.QueryContext(ctx, q, format, start.UTC(), end.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[string]RevenueBucket)
    for rows.Next() {
        var label string
        var b RevenueBucket
        if err := rows.Scan(&label, &b.Revenue, &b.Count); err != nil {
            return nil, err
        }
        out[label] = b
    }
    return out, rows.Err()
}

// DurationBucket aggregates parking durations of departures that share
// one formatted time label.
type DurationBucket struct {
    Avg   float64
    Min   float64
    Max   float64
    Count int
}

// DurationBuckets groups departures between start and end by formatted
// exit time and reports average, minimum and maximum stay duration per
// group.
func (r *HistoryRepo) DurationBuckets(ctx context.Context, start, end time.Time, format string) (map[string]DurationBucket, error) {
    const q = `SELECT DATE_FORMAT(exit_time, ?) AS label,
                      COALESCE(AVG(duration_minutes), 0),
                      COALESCE(MIN(duration_minutes), 0),
                      COALESCE(MAX(duration_minutes), 0),
                      COUNT(*)
               FROM parking_history
               WHERE exit_time >= ? AND exit_time <= ?
               GROUP BY label`
    rows, err := r.db.QueryContext(ctx, q, format, start.UTC(), end.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[string]DurationBucket)
    for rows.Next() {
        var label string
        var b DurationBucket
        if err := rows.Scan(&label, &b.Avg, &b.Min, &b.Max, &b.Count); err != nil {
            return nil, err
        }
        out[label] = b
    }
    return out, rows.Err()
}
