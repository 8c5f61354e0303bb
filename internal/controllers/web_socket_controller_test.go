package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/raptor1820/georloctesting/internal/models"
	"github.com/raptor1820/georloctesting/internal/store"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLocationHubBroadcastsSavedLocation(t *testing.T) {
	hub := NewLocationHub(10)
	defer hub.Close()

	lc := NewLocationController(store.NewMemoryStore(10), hub)
	r := newTestEngine(lc)
	r.GET("/ws/location", hub.HandleLocationWebSocket)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/location"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	resp, err := http.Post(srv.URL+"/api/location", "application/json", strings.NewReader(`{"latitude": 3, "longitude": 4}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var saved models.Location
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pushed models.Location
	if err := conn.ReadJSON(&pushed); err != nil {
		t.Fatalf("read: %v", err)
	}
	if pushed.ID != saved.ID || pushed.Latitude != 3 {
		t.Errorf("pushed %+v, want %+v", pushed, saved)
	}
}

func TestLocationHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewLocationHub(10)
	defer hub.Close()

	r := gin.New()
	r.GET("/ws/location", hub.HandleLocationWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/location", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestPublishLocationDropsWhenFull(t *testing.T) {
	hub := &LocationHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan models.Location, 1),
		quit:      make(chan struct{}),
	}

	done := make(chan struct{})
	go func() {
		hub.PublishLocation(models.Location{ID: "a"})
		hub.PublishLocation(models.Location{ID: "b"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishLocation blocked on a full buffer")
	}
	if got := (<-hub.broadcast).ID; got != "a" {
		t.Errorf("queued = %s, want a", got)
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	hub := NewLocationHub(1)
	hub.Close()
	hub.Close()

	hub.PublishLocation(models.Location{ID: "late"})
	if len(hub.broadcast) != 0 {
		t.Error("publish after close queued a message")
	}
}
