package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/smart-parking/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes wires every endpoint of the parking API onto the
// provided Echo instance.  The mutating vehicle endpoints sit behind the
// rate limiter; the read-heavy statistics endpoints additionally go
// through the response cache.  The WebSocket subscription lives outside
// both: a long-lived upgrade must be neither cached nor token-billed
// per event.
func RegisterRoutes(e *echo.Echo, p *handler.ParkingHandler, s *handler.StatsHandler,
    ws *handler.WSHandler, cache echo.MiddlewareFunc, limit echo.MiddlewareFunc) {
    // Health check for load balancers and monitoring.
    e.GET("/healthz", handler.Health)

    api := e.Group("/api", limit)

    // Vehicle lifecycle: explicit-spot arrival, auto-assigned arrival
    // and departure with billing.
    api.POST("/vehicle/arrive", p.ArriveExplicit)
    api.POST("/vehicle/arrive/auto", p.ArriveAuto)
    api.POST("/vehicle/depart/:vehicle_id", p.Depart)

    // Registry and ledger views plus the destructive reset.
    api.GET("/parking/status", p.GetStatus)
    api.GET("/vehicles", p.GetActiveVehicles)
    api.POST("/reset", p.Reset)

    // Read-only aggregations, cached for a few seconds.
    statsGroup := api.Group("/stats", cache)
    statsGroup.GET("", s.GetStats)
    statsGroup.GET("/vehicles", s.GetVehicleStats)
    statsGroup.GET("/revenue", s.GetRevenueStats)
    statsGroup.GET("/duration", s.GetDurationStats)
    statsGroup.GET("/total-revenue", s.GetTotalRevenue)

    // Real-time event subscription.
    e.GET("/ws", ws.Subscribe)
}
