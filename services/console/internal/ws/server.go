package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades HTTP connections to notification websockets.
type Server struct {
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer builds ws server. checkOrigin nil accepts every origin.
func NewServer(hub *Hub, checkOrigin func(r *http.Request) bool, logger *zap.Logger) *Server {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Server{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// HandleWS is the HTTP handler for the notifications websocket.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{hub: s.hub, conn: conn, send: make(chan []byte, 64)}
	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
