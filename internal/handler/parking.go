package handler

import (
    "context"  // background context for fire-and-forget publishing
    "errors"   // for errors.Is comparisons
    "log"      // best-effort failure reporting
    "net/http" // HTTP status codes
    "time"     // working with timestamps

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/smart-parking/internal/billing"
    "github.com/iliyamo/smart-parking/internal/hub"
    "github.com/iliyamo/smart-parking/internal/model"
    "github.com/iliyamo/smart-parking/internal/queue"
    "github.com/iliyamo/smart-parking/internal/repository"
    queue_publisher "github.com/iliyamo/smart-parking/internal/service"
)

// ParkingHandler groups the repositories and side-channels required to
// process arrivals, departures and registry maintenance.  Spot claims
// rely on the repository's conditional updates, so two requests racing
// for the same spot resolve in the database rather than here.  After
// every successful mutation the handler synchronously records a load
// sample and then notifies listeners and the broker best-effort.
type ParkingHandler struct {
    Spots   *repository.SpotRepo    // spot registry access
    Stays   *repository.StayRepo    // vehicle ledger access
    History *repository.HistoryRepo // denormalized departure records
    Load    *repository.LoadRepo    // occupancy snapshot series
    Hub     *hub.Hub                // connected WebSocket listeners
    Tariffs billing.Tariffs         // per-minute rates by category
    Plan    []model.Spot            // seeding plan used by reset
}

// NewParkingHandler constructs a ParkingHandler with the provided
// dependencies.  All repositories must be non-nil.
func NewParkingHandler(spots *repository.SpotRepo, stays *repository.StayRepo,
    history *repository.HistoryRepo, load *repository.LoadRepo,
    h *hub.Hub, tariffs billing.Tariffs, plan []model.Spot) *ParkingHandler {
    if spots == nil || stays == nil || history == nil || load == nil {
        panic("nil repository passed to NewParkingHandler")
    }
    return &ParkingHandler{
        Spots:   spots,
        Stays:   stays,
        History: history,
        Load:    load,
        Hub:     h,
        Tariffs: tariffs,
        Plan:    plan,
    }
}

// arriveRequest is the body of POST /api/vehicle/arrive.  The caller
// picks a target spot explicitly; the server validates zoning and
// occupancy before claiming it.
type arriveRequest struct {
    VehicleID string `json:"vehicle_id"`
    Type      string `json:"type"`
    IsEV      bool   `json:"isEv"`
    SpotID    int    `json:"spot_id"`
}

// ArriveExplicit handles POST /api/vehicle/arrive.  Validation order:
// the spot must exist, its zoning must accept the vehicle, it must be
// free, and the vehicle must not already be parked.  The claim itself
// is a conditional update, so a concurrent request that takes the spot
// first surfaces as "spot occupied" here.
func (h *ParkingHandler) ArriveExplicit(c echo.Context) error {
    var body arriveRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.VehicleID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id is required"})
    }
    ctx := c.Request().Context()

    spot, err := h.Spots.GetByID(ctx, body.SpotID)
    if err != nil {
        if errors.Is(err, repository.ErrSpotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking spot does not exist"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !model.CompatibleSpot(*spot, body.Type, body.IsEV) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle type does not match spot zoning"})
    }
    if spot.Status == model.SpotStatusOccupied {
        return c.JSON(http.StatusConflict, echo.Map{"error": "parking spot is already occupied"})
    }
    if _, err := h.Stays.FindActiveByVehicle(ctx, body.VehicleID); err == nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle is already parked"})
    } else if !errors.Is(err, repository.ErrVehicleNotFound) {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    if err := h.Spots.Claim(ctx, body.SpotID, body.VehicleID); err != nil {
        if errors.Is(err, repository.ErrSpotOccupied) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "parking spot is already occupied"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    stay := &model.Stay{
        VehicleID:   body.VehicleID,
        VehicleType: body.Type,
        IsEV:        body.IsEV,
        EntryTime:   time.Now().UTC(),
        SpotID:      body.SpotID,
    }
    if err := h.Stays.Create(ctx, stay); err != nil {
        // Undo the claim so the spot does not stay bound to a vehicle
        // without a ledger entry.
        if relErr := h.Spots.Release(ctx, body.SpotID); relErr != nil {
            log.Printf("arrive: release after failed stay insert: %v", relErr)
        }
        if errors.Is(err, repository.ErrVehicleAlreadyParked) {
            // A concurrent arrival of the same vehicle id got past the
            // lookup above; the unique active-stay key caught it.
            return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle is already parked"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record stay"})
    }

    h.recordLoad(ctx)
    h.notify("arrived", stay, 0, 0)
    return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}

// arriveAutoRequest is the body of POST /api/vehicle/arrive/auto.  The
// caller declares a category only; the server picks the spot.
type arriveAutoRequest struct {
    VehicleID   string `json:"vehicle_id"`
    VehicleType string `json:"vehicle_type"`
}

// ArriveAuto handles POST /api/vehicle/arrive/auto.  The engine claims
// the first free spot zoned for the declared category in one atomic
// find-and-update, so two concurrent requests can never be handed the
// same spot.
func (h *ParkingHandler) ArriveAuto(c echo.Context) error {
    var body arriveAutoRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.VehicleID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id is required"})
    }
    switch body.VehicleType {
    case model.SpotTypeRegular, model.SpotTypeEV, model.SpotTypeDisabled:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported vehicle type"})
    }
    ctx := c.Request().Context()

    if _, err := h.Stays.FindActiveByVehicle(ctx, body.VehicleID); err == nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle is already parked"})
    } else if !errors.Is(err, repository.ErrVehicleNotFound) {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    spot, err := h.Spots.ClaimFirstFree(ctx, body.VehicleType, body.VehicleID)
    if err != nil {
        if errors.Is(err, repository.ErrNoAvailableSpots) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "no available spots for this vehicle type"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    stay := &model.Stay{
        VehicleID:   body.VehicleID,
        VehicleType: body.VehicleType,
        IsEV:        body.VehicleType == model.SpotTypeEV,
        EntryTime:   time.Now().UTC(),
        SpotID:      spot.ID,
    }
    if err := h.Stays.Create(ctx, stay); err != nil {
        if relErr := h.Spots.Release(ctx, spot.ID); relErr != nil {
            log.Printf("arrive-auto: release after failed stay insert: %v", relErr)
        }
        if errors.Is(err, repository.ErrVehicleAlreadyParked) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle is already parked"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record stay"})
    }

    h.recordLoad(ctx)
    h.notify("arrived", stay, 0, 0)
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "spot_id": spot.ID})
}

// Depart handles POST /api/vehicle/depart/:vehicle_id.  It bills the
// active stay, writes the denormalized history record, closes the stay
// and frees the spot.  Closing is conditional on the stay still being
// open so a second departure of the same vehicle gets "already paid".
func (h *ParkingHandler) Depart(c echo.Context) error {
    vehicleID := c.Param("vehicle_id")
    if vehicleID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id is required"})
    }
    ctx := c.Request().Context()

    stay, err := h.Stays.FindActiveByVehicle(ctx, vehicleID)
    if err != nil {
        if errors.Is(err, repository.ErrVehicleNotFound) {
            closed, cerr := h.Stays.HasClosedByVehicle(ctx, vehicleID)
            if cerr != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
            }
            if closed {
                return c.JSON(http.StatusConflict, echo.Map{"error": "already paid"})
            }
            return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    exitTime := time.Now().UTC()
    rate := h.Tariffs.Rate(stay.BillingCategory()) // unknown category bills at zero
    cost, durationMinutes := billing.Bill(stay.EntryTime, exitTime, rate)

    if err := h.Stays.Close(ctx, vehicleID, exitTime, cost); err != nil {
        if errors.Is(err, repository.ErrAlreadyPaid) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "already paid"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    if err := h.History.Insert(ctx, model.HistoryRecord{
        VehicleID:       stay.VehicleID,
        VehicleType:     stay.VehicleType,
        SpotID:          stay.SpotID,
        EntryTime:       stay.EntryTime,
        ExitTime:        exitTime,
        DurationMinutes: durationMinutes,
        Cost:            cost,
    }); err != nil {
        log.Printf("depart: history insert failed: %v", err)
    }

    if err := h.Spots.Release(ctx, stay.SpotID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release spot"})
    }

    h.recordLoad(ctx)
    h.notify("departed", stay, cost, durationMinutes)
    return c.JSON(http.StatusOK, echo.Map{
        "status":           "success",
        "cost":             cost,
        "duration_minutes": durationMinutes,
    })
}

// GetStatus handles GET /api/parking/status and returns every spot.
func (h *ParkingHandler) GetStatus(c echo.Context) error {
    spots, err := h.Spots.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": spots})
}

// GetActiveVehicles handles GET /api/vehicles and returns stays with no
// exit time.
func (h *ParkingHandler) GetActiveVehicles(c echo.Context) error {
    stays, err := h.Stays.ListActive(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": stays})
}

// Reset handles POST /api/reset.  It deletes all stays and spots and
// re-seeds the registry from the configured plan.  History and load
// samples live in separate tables and are preserved.
func (h *ParkingHandler) Reset(c echo.Context) error {
    ctx := c.Request().Context()
    if err := h.Stays.DeleteAll(ctx); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reset vehicles"})
    }
    if err := h.Spots.DeleteAll(ctx); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reset spots"})
    }
    if err := h.Spots.Seed(ctx, h.Plan); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to re-seed spots"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status":  "success",
        "message": "vehicles and spots collections were reset",
    })
}

// recordLoad snapshots the occupancy percentage right after a mutation.
// The counts are read back from the store so the sample observes the
// just-applied change.  A failed append is logged but does not fail the
// request; the parking mutation has already committed.
func (h *ParkingHandler) recordLoad(ctx context.Context) {
    occupied, err := h.Spots.CountOccupied(ctx)
    if err != nil {
        log.Printf("load sample: count occupied: %v", err)
        return
    }
    total, err := h.Spots.CountAll(ctx)
    if err != nil {
        log.Printf("load sample: count total: %v", err)
        return
    }
    pct := 0.0
    if total > 0 {
        pct = billing.Round2(float64(occupied) / float64(total) * 100)
    }
    if err := h.Load.Insert(ctx, model.LoadSample{
        Timestamp:      time.Now().UTC(),
        OccupiedSpots:  occupied,
        TotalSpots:     total,
        LoadPercentage: pct,
    }); err != nil {
        log.Printf("load sample: insert: %v", err)
    }
}

// notify fans the state change out to WebSocket listeners and the
// message broker.  Both channels are best effort: failures are logged
// by the hub and publisher and never affect the request outcome.
func (h *ParkingHandler) notify(event string, stay *model.Stay, cost, durationMinutes float64) {
    if h.Hub != nil {
        h.Hub.Broadcast(hub.Event{Event: event, SpotID: stay.SpotID, VehicleID: stay.VehicleID})
    }
    ev := queue.ParkingEvent{
        Event:           event,
        VehicleID:       stay.VehicleID,
        VehicleType:     stay.VehicleType,
        SpotID:          stay.SpotID,
        Cost:            cost,
        DurationMinutes: durationMinutes,
        OccurredAt:      time.Now().UTC().Format(time.RFC3339),
    }
    go func() { _ = queue_publisher.PublishParkingEvent(context.Background(), ev) }()
}
