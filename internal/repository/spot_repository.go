package repository // repository for spot registry persistence

import (
    "context"      // context for managing deadlines
    "database/sql" // sql provides DB interfaces

    "github.com/iliyamo/smart-parking/internal/model"
)

// SpotRepo encapsulates database operations for the spot registry.  All
// state transitions are conditional single-row updates so that two
// requests racing for the same spot cannot both win: the loser sees
// zero affected rows and gets the matching domain error.
type SpotRepo struct {
    db *sql.DB
}

// NewSpotRepo constructs a SpotRepo given a DB handle.
func NewSpotRepo(db *sql.DB) *SpotRepo {
    return &SpotRepo{db: db}
}

// Seed inserts the given spot plan in one statement if the registry is
// empty.  It is a no-op when spots already exist, so calling it on
// every startup is safe.
func (r *SpotRepo) Seed(ctx context.Context, spots []model.Spot) error {
    var count int
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spots`).Scan(&count); err != nil {
        return err
    }
    if count > 0 || len(spots) == 0 {
        return nil
    }
    // Build the INSERT with placeholders for each spot.
    query := `INSERT INTO spots (id, spot_type, status) VALUES `
    args := make([]interface{}, 0, len(spots)*3)
    for i, s := range spots {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?)"
        args = append(args, s.ID, s.SpotType, s.Status)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    return err
}

// GetByID loads a single spot.  ErrSpotNotFound is returned when the id
// does not exist.
func (r *SpotRepo) GetByID(ctx context.Context, id int) (*model.Spot, error) {
    const q = `SELECT id, spot_type, status, current_vehicle FROM spots WHERE id = ?`
    var s model.Spot
    var current sql.NullString
    err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.SpotType, &s.Status, &current)
    if err == sql.ErrNoRows {
        return nil, ErrSpotNotFound
    }
    if err != nil {
        return nil, err
    }
    if current.Valid {
        v := current.String
        s.CurrentVehicle = &v
    }
    return &s, nil
}

// ListAll returns every spot ordered by id.
func (r *SpotRepo) ListAll(ctx context.Context) ([]model.Spot, error) {
    const q = `SELECT id, spot_type, status, current_vehicle FROM spots ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    spots := make([]model.Spot, 0)
    for rows.Next() {
        var s model.Spot
        var current sql.NullString
        if err := rows.Scan(&s.ID, &s.SpotType, &s.Status, &current); err != nil {
            return nil, err
        }
        if current.Valid {
            v := current.String
            s.CurrentVehicle = &v
        }
        spots = append(spots, s)
    }
    return spots, rows.Err()
}

// Claim marks the given spot occupied and binds it to the vehicle,
// but only if the spot is still free.  A lost race surfaces as
// ErrSpotOccupied rather than corrupting state.
func (r *SpotRepo) Claim(ctx context.Context, spotID int, vehicleID string) error {
    const q = `UPDATE spots SET status = ?, current_vehicle = ? WHERE id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, model.SpotStatusOccupied, vehicleID, spotID, model.SpotStatusFree)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrSpotOccupied
    }
    return nil
}

// ClaimFirstFree atomically claims the lowest-numbered free spot of the
// requested type for the vehicle and returns it.  The claim is a single
// UPDATE ... LIMIT 1 so two concurrent callers can never take the same
// spot; when no row matches, ErrNoAvailableSpots is returned.
func (r *SpotRepo) ClaimFirstFree(ctx context.Context, spotType, vehicleID string) (*model.Spot, error) {
    const claim = `UPDATE spots SET status = ?, current_vehicle = ?
                   WHERE spot_type = ? AND status = ? ORDER BY id LIMIT 1`
    res, err := r.db.ExecContext(ctx, claim, model.SpotStatusOccupied, vehicleID, spotType, model.SpotStatusFree)
    if err != nil {
        return nil, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return nil, err
    }
    if n == 0 {
        return nil, ErrNoAvailableSpots
    }
    // Read back the claimed row; current_vehicle is unique among
    // occupied spots because arrivals reject vehicles that are already
    // parked.
    const sel = `SELECT id, spot_type, status, current_vehicle FROM spots
                 WHERE current_vehicle = ? AND status = ?`
    var s model.Spot
    var current sql.NullString
    if err := r.db.QueryRowContext(ctx, sel, vehicleID, model.SpotStatusOccupied).
        Scan(&s.ID, &s.SpotType, &s.Status, &current); err != nil {
        return nil, err
    }
    if current.Valid {
        v := current.String
        s.CurrentVehicle = &v
    }
    return &s, nil
}

// Release frees the given spot and clears its bound vehicle.
func (r *SpotRepo) Release(ctx context.Context, spotID int) error {
    const q = `UPDATE spots SET status = ?, current_vehicle = NULL WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q, model.SpotStatusFree, spotID)
    return err
}

// CountAll returns the number of spots in the registry.
func (r *SpotRepo) CountAll(ctx context.Context) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spots`).Scan(&n)
    return n, err
}

// CountOccupied returns the number of occupied spots.
func (r *SpotRepo) CountOccupied(ctx context.Context) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spots WHERE status = ?`, model.SpotStatusOccupied).Scan(&n)
    return n, err
}

// DeleteAll removes every spot.  Used only by the destructive reset
// operation, which re-seeds the registry immediately afterwards.
func (r *SpotRepo) DeleteAll(ctx context.Context) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM spots`)
    return err
}
