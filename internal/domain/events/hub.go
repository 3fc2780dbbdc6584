package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hotelpms/internal/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// Subscription is one connected calendar client. Events are queued on send and
// written by the subscription's own write pump.
type Subscription struct {
	hotelID uint
	conn    *websocket.Conn
	send    chan []byte
}

// Hub fans events out to every websocket subscribed to the event's hotel.
// Publish never waits on a client; a subscriber whose queue is full is dropped.
type Hub struct {
	subscribers map[*Subscription]struct{}
	mutex       sync.RWMutex
	log         *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*Subscription]struct{}),
		log:         logger.OrNop(log),
	}
}

// Register adds conn for hotelID and starts its write pump.
func (h *Hub) Register(hotelID uint, conn *websocket.Conn) *Subscription {
	s := &Subscription{hotelID: hotelID, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.subscribers[s] = struct{}{}
	h.mutex.Unlock()

	go h.writePump(s)
	return s
}

// Unregister removes s and closes its queue; the write pump then closes the
// connection. Safe to call more than once.
func (h *Hub) Unregister(s *Subscription) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(s)
}

// remove expects h.mutex to be held for writing.
func (h *Hub) remove(s *Subscription) {
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.send)
	}
}

func (h *Hub) Publish(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.log.Error("encode calendar event", zap.String("type", e.Type), zap.Error(err))
		return
	}

	var slow []*Subscription
	h.mutex.RLock()
	for s := range h.subscribers {
		if s.hotelID != e.HotelID {
			continue
		}
		select {
		case s.send <- data:
		default:
			slow = append(slow, s)
		}
	}
	h.mutex.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mutex.Lock()
	for _, s := range slow {
		h.log.Debug("dropping slow calendar subscriber", zap.Uint("hotel_id", s.hotelID))
		h.remove(s)
	}
	h.mutex.Unlock()
}

func (h *Hub) SubscriberCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.subscribers)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for s := range h.subscribers {
		h.remove(s)
	}
}

// readPump discards client messages and keeps the read deadline alive through
// pongs. It returns when the client goes away.
func (h *Hub) readPump(s *Subscription) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(s *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug("calendar subscriber write failed", zap.Error(err))
				h.Unregister(s)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Unregister(s)
				return
			}
		}
	}
}
