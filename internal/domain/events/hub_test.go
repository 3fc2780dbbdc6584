package events

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHubServer(t *testing.T, hotelID uint) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("hotel_id", hotelID)
		c.Next()
	})
	RegisterRoutes(r.Group("/api/v1"), NewHandler(hub, nil))

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/calendar"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.SubscriberCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDeliversEventsForSubscribedHotel(t *testing.T) {
	hub, srv := setupHubServer(t, 7)
	conn := dial(t, srv)
	waitForSubscribers(t, hub, 1)

	Publish(hub, TypeCalendarOverrideSet, 7, map[string]any{"date": "2026-02-14"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, TypeCalendarOverrideSet, got.Type)
	assert.Equal(t, uint(7), got.HotelID)
}

func TestHubSkipsOtherHotels(t *testing.T) {
	hub, srv := setupHubServer(t, 7)
	conn := dial(t, srv)
	waitForSubscribers(t, hub, 1)

	Publish(hub, TypeSeasonBlockDeleted, 8, nil)
	Publish(hub, TypeSeasonBlockConfirmed, 7, nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, TypeSeasonBlockConfirmed, got.Type)
}

func TestPublishToNilPublisherIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Publish(nil, TypeSeasonBlockSaved, 1, nil) })
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, srv := setupHubServer(t, 1)
	conn := dial(t, srv)
	waitForSubscribers(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForSubscribers(t, hub, 0)
}

func TestPublishDoesNotWaitForStalledSubscriber(t *testing.T) {
	hub, srv := setupHubServer(t, 3)
	_ = dial(t, srv) // never read from
	waitForSubscribers(t, hub, 1)

	payload := strings.Repeat("x", 64*1024)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			Publish(hub, TypeSeasonalCurveUpdated, 3, payload)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publishing stalled behind a subscriber that does not read")
	}
	waitForSubscribers(t, hub, 0)
}

func TestUnregisterTwiceIsSafe(t *testing.T) {
	hub, srv := setupHubServer(t, 1)
	_ = dial(t, srv)
	waitForSubscribers(t, hub, 1)

	hub.mutex.RLock()
	var sub *Subscription
	for s := range hub.subscribers {
		sub = s
	}
	hub.mutex.RUnlock()

	assert.NotPanics(t, func() {
		hub.Unregister(sub)
		hub.Unregister(sub)
	})
	assert.Equal(t, 0, hub.SubscriberCount())
}
