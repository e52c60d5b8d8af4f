package handlers

import (
	"net/http"

	gws "github.com/gorilla/websocket"

	"bemyeyes/internal/logger"
	"bemyeyes/internal/services/websocket"
)

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// EventsHandler upgrades the connection and subscribes the client to
// pipeline events until it disconnects.
func EventsHandler(hub *websocket.HubService, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Websocket upgrade failed: %v", err)
			return
		}

		hub.Register(conn)

		// Drain the connection; clients only listen, a read error means
		// the client went away.
		go func() {
			defer hub.Unregister(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
