package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/vip8"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Boot implements console.Display.
func (server *Server) Boot() error {
	return nil
}

// Render implements console.Display.
// Sockets that fail to receive the screen are dropped.
func (server *Server) Render(screen vip8.Screen) error {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	server.last = screen
	server.broadcast(server.displays, screen.Pack())

	return nil
}

// broadcast must be called with wsMutex held
func (server *Server) broadcast(conns map[*websocket.Conn]struct{}, msg []byte) {
	for conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			server.logger.Error("Error writing to socket", slog.Any("error", err))
			delete(conns, conn)
			conn.Close()
		}
	}
}

func (server *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		server.logger.Error("upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	server.logger.Info("Connecting to display")
	server.wsMutex.Lock()
	server.displays[conn] = struct{}{}
	server.broadcast(map[*websocket.Conn]struct{}{conn: {}}, server.last.Pack())
	server.wsMutex.Unlock()

	server.drain(conn)

	server.wsMutex.Lock()
	delete(server.displays, conn)
	server.wsMutex.Unlock()
	server.logger.Info("Disconnecting from display")
}

// drain discards incoming messages until the peer goes away
func (server *Server) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// handleKeypad reads 2-byte messages: the key and 1 for pressed or 0 for released
func (server *Server) handleKeypad(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		server.logger.Error("upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	server.logger.Info("Connecting to keypad")
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			server.logger.Info("Disconnecting from keypad")
			return
		}

		if len(msg) != 2 {
			server.logger.Error("Invalid keypad message", slog.Int("size", len(msg)))
			continue
		}

		if msg[1] > 0 {
			err = server.runner.KeyDown(msg[0])
		} else {
			err = server.runner.KeyUp(msg[0])
		}
		if err != nil {
			server.logger.Error("Invalid key", slog.Any("error", err))
		}
	}
}
