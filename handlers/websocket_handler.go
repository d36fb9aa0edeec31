package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/kmadiyev/kumite/brackets"
	"github.com/kmadiyev/kumite/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the mobile client hosts before exposing publicly.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeWs upgrades the connection and subscribes the client to a tournament's
// bracket updates.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	client := brackets.NewClient(h.hub, conn, services.RoomID(tournamentID))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
