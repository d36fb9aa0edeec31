package brackets

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Events pushed to spectators of a tournament room.
const (
	EventBracketCreated     = "BRACKET_CREATED"
	EventMatchUpdated       = "MATCH_UPDATED"
	EventRoundCreated       = "ROUND_CREATED"
	EventTournamentFinished = "TOURNAMENT_FINISHED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one websocket spectator, pinned to a single tournament room.
type Client struct {
	ID   uuid.UUID
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
	Room string

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, room string) *Client {
	return &Client{
		ID:   uuid.New(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: room,
	}
}

// Hub fans bracket updates out to the clients of each tournament room.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Info("websocket client joined",
				slog.String("client_id", client.ID.String()),
				slog.String("room", client.Room),
				slog.Int("room_size", len(h.rooms[client.Room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, present := clients[client]; present {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
					h.logger.Info("websocket client left",
						slog.String("client_id", client.ID.String()),
						slog.String("room", client.Room))
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom serializes the message once and pushes it to every client in
// the room. Clients with a full send buffer are skipped, not blocked on.
func (h *Hub) BroadcastToRoom(roomID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	msg.RoomID = roomID
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal hub message",
			slog.String("room", roomID), slog.Any("error", err))
		return
	}

	for client := range clients {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("dropping message for slow websocket client",
				slog.String("client_id", client.ID.String()),
				slog.String("room", roomID))
		}
		client.mu.Unlock()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// ReadPump drains (and ignores) inbound frames so pings and close frames are
// processed. It unregisters the client on any read error.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
