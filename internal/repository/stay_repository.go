package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/smart-parking/internal/model"
)

// StayRepo provides CRUD operations for the vehicle ledger.  A stay is
// the interval between one vehicle's arrival and departure; at most one
// stay per vehicle id may be active (exit_time IS NULL) at any time.
// All timestamps are stored in UTC.
type StayRepo struct {
    db *sql.DB
}

// NewStayRepo returns a new StayRepo bound to the given database.
func NewStayRepo(db *sql.DB) *StayRepo { return &StayRepo{db: db} }

// Create inserts a new active stay and populates the generated ID on
// the provided record.  The vehicles table keeps a unique key over the
// active-stay column, so a concurrent arrival of the same vehicle id
// loses the race and gets ErrVehicleAlreadyParked.
func (r *StayRepo) Create(ctx context.Context, stay *model.Stay) error {
    const q = `INSERT INTO vehicles (vehicle_id, vehicle_type, is_ev, entry_time, spot_id, paid)
               VALUES (?, ?, ?, ?, ?, 0)`
    result, err := r.db.ExecContext(ctx, q, stay.VehicleID, stay.VehicleType, stay.IsEV,
        stay.EntryTime.UTC(), stay.SpotID)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrVehicleAlreadyParked
        }
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    stay.ID = uint64(id)
    return nil
}

// FindActiveByVehicle returns the active stay for the vehicle id, or
// ErrVehicleNotFound when the vehicle has no open stay.
func (r *StayRepo) FindActiveByVehicle(ctx context.Context, vehicleID string) (*model.Stay, error) {
    const q = `SELECT id, vehicle_id, vehicle_type, is_ev, entry_time, exit_time, spot_id, cost, paid
               FROM vehicles WHERE vehicle_id = ? AND exit_time IS NULL`
    stay, err := r.scanOne(r.db.QueryRowContext(ctx, q, vehicleID))
    if err == sql.ErrNoRows {
        return nil, ErrVehicleNotFound
    }
    return stay, err
}

// HasClosedByVehicle reports whether any closed, paid stay exists for
// the vehicle id.  Departure uses it to distinguish "never arrived"
// from "already paid".
func (r *StayRepo) HasClosedByVehicle(ctx context.Context, vehicleID string) (bool, error) {
    const q = `SELECT COUNT(*) FROM vehicles WHERE vehicle_id = ? AND paid = 1`
    var n int
    if err := r.db.QueryRowContext(ctx, q, vehicleID).Scan(&n); err != nil {
        return false, err
    }
    return n > 0, nil
}

// Close marks the active stay for the vehicle id as departed and paid.
// The update is conditional on the stay still being open, so a
// concurrent departure of the same vehicle loses the race and gets
// ErrAlreadyPaid.
func (r *StayRepo) Close(ctx context.Context, vehicleID string, exitTime time.Time, cost float64) error {
    const q = `UPDATE vehicles SET exit_time = ?, cost = ?, paid = 1
               WHERE vehicle_id = ? AND exit_time IS NULL`
    res, err := r.db.ExecContext(ctx, q, exitTime.UTC(), cost, vehicleID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrAlreadyPaid
    }
    return nil
}

// ListActive returns all stays with no exit time, ordered by entry time.
func (r *StayRepo) ListActive(ctx context.Context) ([]model.Stay, error) {
    const q = `SELECT id, vehicle_id, vehicle_type, is_ev, entry_time, exit_time, spot_id, cost, paid
               FROM vehicles WHERE exit_time IS NULL ORDER BY entry_time`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    stays := make([]model.Stay, 0)
    for rows.Next() {
        var s model.Stay
        var exit sql.NullTime
        var cost sql.NullFloat64
        if err := rows.Scan(&s.ID, &s.VehicleID, &s.VehicleType, &s.IsEV,
            &s.EntryTime, &exit, &s.SpotID, &cost, &s.Paid); err != nil {
            return nil, err
        }
        if exit.Valid {
            t := exit.Time
            s.ExitTime = &t
        }
        if cost.Valid {
            c := cost.Float64
            s.Cost = &c
        }
        stays = append(stays, s)
    }
    return stays, rows.Err()
}

// HourlyStat is one row of the hour-of-day aggregation over closed
// stays: how many vehicles entered during that hour and what revenue
// they produced.
type HourlyStat struct {
    Hour     int     `json:"hour"`
    Vehicles int     `json:"vehicles"`
    Revenue  float64 `json:"revenue"`
}

// HourlyStats groups closed stays that entered after the given time by
// hour of entry, ordered by hour ascending.  Stays without a cost
// contribute zero revenue.
func (r *StayRepo) HourlyStats(ctx context.Context, since time.Time) ([]HourlyStat, error) {
    const q = `SELECT HOUR(entry_time) AS h, COUNT(*), COALESCE(SUM(cost), 0)
               FROM vehicles
               WHERE entry_time >= ? AND exit_time IS NOT NULL
               GROUP BY h ORDER BY h`
    rows, err := r.db.QueryContext(ctx, q, since.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    stats := make([]HourlyStat, 0)
    for rows.Next() {
        var st HourlyStat
        if err := rows.Scan(&st.Hour, &st.Vehicles, &st.Revenue); err != nil {
            return nil, err
        }
        stats = append(stats, st)
    }
    return stats, rows.Err()
}

// DeleteAll removes every stay.  Used only by the destructive reset.
func (r *StayRepo) DeleteAll(ctx context.Context) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM vehicles`)
    return err
}

// isDuplicateKey reports whether the error is a MySQL duplicate-entry
// violation (error 1062).
func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}

func (r *StayRepo) scanOne(row *sql.Row) (*model.Stay, error) {
    var s model.Stay
    var exit sql.NullTime
    var cost sql.NullFloat64
    err := row.Scan(&s.ID, &s.VehicleID, &s.VehicleType, &s.IsEV,
        &s.EntryTime, &exit, &s.SpotID, &cost, &s.Paid)
    if err != nil {
        return nil, err
    }
    if exit.Valid {
        t := exit.Time
        s.ExitTime = &t
    }
    if cost.Valid {
        c := cost.Float64
        s.Cost = &c
    }
    return &s, nil
}
