package events

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/ws/calendar", handler.Subscribe)
}

// Subscribe upgrades the connection and keeps it registered until the client goes away.
// Clients only listen; anything they send is discarded.
func (h *Handler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	sub := h.hub.Register(c.GetUint("hotel_id"), conn)
	defer h.hub.Unregister(sub)

	h.hub.readPump(sub)
}
