package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"
)

// ServeChat runs one chat connection until the peer goes away. The read
// loop stays on the caller's goroutine, as fiber's websocket handler expects.
func ServeChat(ctx context.Context, hub *Hub, conn *websocket.Conn, sessionID string, turn TurnFunc) {
	client := newClient(hub, conn, sessionID)
	hub.add(client)

	go client.writePump()
	client.readPump(ctx, turn)
}
