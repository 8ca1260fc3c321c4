package main // Entry point package

import (
    "context"
    "log" // Logging library

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4" // Echo web framework
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/smart-parking/internal/config"
    "github.com/iliyamo/smart-parking/internal/database"
    "github.com/iliyamo/smart-parking/internal/handler"
    "github.com/iliyamo/smart-parking/internal/hub"
    "github.com/iliyamo/smart-parking/internal/middleware"
    "github.com/iliyamo/smart-parking/internal/model"
    "github.com/iliyamo/smart-parking/internal/queue"
    "github.com/iliyamo/smart-parking/internal/repository"
    "github.com/iliyamo/smart-parking/internal/router"
)

func main() {
    _ = godotenv.Load() // .env is optional; real env vars win
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    defer db.Close()

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    if err := database.Bootstrap(ctx, db); err != nil {
        log.Fatalf("schema bootstrap failed: %v", err)
    }

    spotRepo := repository.NewSpotRepo(db)
    stayRepo := repository.NewStayRepo(db)
    historyRepo := repository.NewHistoryRepo(db)
    loadRepo := repository.NewLoadRepo(db)

    // Seed the registry on first start; no-op when spots already exist.
    plan := model.PlanSpots(cfg.Capacity, cfg.DisabledSpots, cfg.EVSpots)
    if err := spotRepo.Seed(ctx, plan); err != nil {
        log.Fatalf("spot seeding failed: %v", err)
    }

    // Redis backs the stats response cache and the rate limiter; both
    // degrade to no-ops when it is unreachable.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable: response cache and rate limiting disabled")
    }

    broadcast := hub.New()

    // Background consumer mirroring parking events to logs/parking.log.
    // It runs until the context is cancelled on server exit.
    go func() {
        if err := queue.StartParkingConsumer(ctx); err != nil {
            log.Printf("parking consumer stopped: %v", err)
        }
    }()

    parking := handler.NewParkingHandler(spotRepo, stayRepo, historyRepo, loadRepo,
        broadcast, cfg.Tariffs, plan)
    statsH := handler.NewStatsHandler(stayRepo, historyRepo, loadRepo)
    ws := handler.NewWSHandler(broadcast)

    e := echo.New()
    e.Use(echomw.CORS()) // the dashboard frontend is served from another origin

    cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    router.RegisterRoutes(e, parking, statsH, ws, cacheMW, limitMW)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s, capacity=%d)", addr, cfg.Env, cfg.Capacity)

    if err := e.Start(addr); err != nil { // Start HTTP server
        cancel()       // stop the background consumer
        log.Fatal(err) // Log and exit if server fails
    }
}
