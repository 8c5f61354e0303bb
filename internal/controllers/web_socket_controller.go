package controllers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/raptor1820/georloctesting/internal/metrics"
	"github.com/raptor1820/georloctesting/internal/models"
)

const writeWait = 2 * time.Second

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // demo feed, any origin may watch
	},
}

// LocationHub fans saved locations out to live feed clients.
type LocationHub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan models.Location
	quit      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
}

// NewLocationHub creates a hub with the given broadcast buffer and starts
// the goroutine that drains it.
func NewLocationHub(buffer int) *LocationHub {
	if buffer <= 0 {
		buffer = 100
	}
	hub := &LocationHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan models.Location, buffer),
		quit:      make(chan struct{}),
	}
	go hub.run()
	return hub
}

// run sends each queued location to every registered client.
func (h *LocationHub) run() {
	for {
		select {
		case <-h.quit:
			return
		case loc := <-h.broadcast:
			payload, err := json.Marshal(loc)
			if err != nil {
				logrus.WithError(err).WithField("id", loc.ID).Error("Failed to encode location for broadcast.")
				continue
			}
			h.send(payload)
		}
	}
}

func (h *LocationHub) send(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logrus.WithError(err).WithField("conn_ptr", fmt.Sprintf("%p", conn)).
				Info("Dropping live feed client after failed write.")
			h.removeLocked(conn)
		}
	}
}

// RegisterClient adds a live feed connection.
func (h *LocationHub) RegisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	metrics.FeedClients.Set(float64(len(h.clients)))
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client registered with LocationHub.")
}

// UnregisterClient removes and closes a live feed connection.
func (h *LocationHub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(conn)
}

func (h *LocationHub) removeLocked(conn *websocket.Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	_ = conn.Close()
	metrics.FeedClients.Set(float64(len(h.clients)))
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client unregistered from LocationHub.")
}

// ClientCount reports the number of connected clients.
func (h *LocationHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// PublishLocation queues loc for broadcast. It never blocks; a full
// buffer drops the message.
func (h *LocationHub) PublishLocation(loc models.Location) {
	select {
	case <-h.quit:
		return
	default:
	}

	select {
	case h.broadcast <- loc:
	default:
		metrics.FeedDropped.Inc()
		logrus.WithField("id", loc.ID).Warn("Location broadcast channel full, dropping message.")
	}
}

// Close stops the broadcast loop and disconnects every client.
func (h *LocationHub) Close() {
	h.closeOnce.Do(func() {
		close(h.quit)

		h.mu.Lock()
		defer h.mu.Unlock()
		for conn := range h.clients {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			h.removeLocked(conn)
		}
	})
}

// HandleLocationWebSocket upgrades the request and streams every saved
// location to the client until it disconnects.
func (h *LocationHub) HandleLocationWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}

	h.RegisterClient(conn)
	defer h.UnregisterClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).Warn("Error reading from live feed client.")
			}
			return
		}
		logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Debug("Live feed client sent unexpected message. Ignoring.")
	}
}
