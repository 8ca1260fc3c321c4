package handler

import (
    "net/http"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/gorilla/websocket"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/smart-parking/internal/hub"
)

var upgrader = websocket.Upgrader{
    // The API is open; browsers on any origin may subscribe.
    CheckOrigin: func(r *http.Request) bool { return true },
}

const wsWriteTimeout = 5 * time.Second

// wsListener adapts one WebSocket connection to the hub's Listener
// interface.  Writes are serialized with a mutex because the hub
// delivers events from multiple goroutines.
type wsListener struct {
    id   string
    mu   sync.Mutex
    conn *websocket.Conn
}

func (l *wsListener) ID() string { return l.id }

func (l *wsListener) Send(ev hub.Event) error {
    l.mu.Lock()
    defer l.mu.Unlock()
    _ = l.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
    return l.conn.WriteJSON(ev)
}

// WSHandler upgrades subscribe requests and registers the resulting
// connections with the broadcast hub.
type WSHandler struct {
    Hub *hub.Hub
}

// NewWSHandler constructs a WSHandler bound to the given hub.
func NewWSHandler(h *hub.Hub) *WSHandler {
    if h == nil {
        panic("nil hub passed to NewWSHandler")
    }
    return &WSHandler{Hub: h}
}

// Subscribe handles GET /ws.  Each connected client receives every
// subsequent arrival and departure event until its connection drops;
// there is no replay of earlier events.  The read loop exists only to
// detect the client closing the connection.
func (h *WSHandler) Subscribe(c echo.Context) error {
    conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
    if err != nil {
        return err
    }
    l := &wsListener{id: uuid.NewString(), conn: conn}
    h.Hub.Register(l)

    go func() {
        defer func() {
            h.Hub.Unregister(l.id)
            _ = conn.Close()
        }()
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                return
            }
        }
    }()
    return nil
}
