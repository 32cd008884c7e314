package ws_room

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sharuys/SecretSanta/internal/model"
)

type MessageType string

const (
	UserJoined  MessageType = "USER_JOINED"
	UserRemoved MessageType = "USER_REMOVED"
	GameStarted MessageType = "GAME_STARTED"
)

const sendBuffer = 16

type Message struct {
	Type   MessageType    `json:"type"`
	RoomID model.RoomID   `json:"room_id"`
	Data   map[string]any `json:"data,omitempty"`
}

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	RoomID model.RoomID
	UserID model.UserID
}

func NewClient(hub *Hub, conn *websocket.Conn, user model.User) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		RoomID: user.RoomID,
		UserID: user.ID,
	}
}

type Hub struct {
	mu sync.Mutex

	// Connected clients keyed by room ID.
	rooms map[model.RoomID]map[*Client]bool

	logger *slog.Logger
}

func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:  make(map[model.RoomID]map[*Client]bool),
		logger: logger,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[client.RoomID]; !ok {
		h.rooms[client.RoomID] = make(map[*Client]bool)
	}
	h.rooms[client.RoomID][client] = true

	h.logger.Info("client registered", "room_id", client.RoomID, "user_id", client.UserID)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.drop(client) {
		h.logger.Info("client unregistered", "room_id", client.RoomID, "user_id", client.UserID)
	}
}

// drop closes Send once; callers hold mu.
func (h *Hub) drop(client *Client) bool {
	room, ok := h.rooms[client.RoomID]
	if !ok || !room[client] {
		return false
	}

	delete(room, client)
	close(client.Send)
	if len(room) == 0 {
		delete(h.rooms, client.RoomID)
	}
	return true
}

func (h *Hub) ClientsCount(roomID model.RoomID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom drops clients whose send buffer is full.
func (h *Hub) BroadcastToRoom(roomID model.RoomID, message Message) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal message", "error", err, "type", message.Type)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[roomID] {
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("dropping slow client", "room_id", roomID, "user_id", client.UserID)
			h.drop(client)
		}
	}
}

func (h *Hub) UserJoined(roomID model.RoomID, userID model.UserID, name string) {
	h.BroadcastToRoom(roomID, Message{
		Type:   UserJoined,
		RoomID: roomID,
		Data: map[string]any{
			"user_id": userID,
			"name":    name,
		},
	})
}

func (h *Hub) UserRemoved(roomID model.RoomID, userID model.UserID) {
	h.BroadcastToRoom(roomID, Message{
		Type:   UserRemoved,
		RoomID: roomID,
		Data: map[string]any{
			"user_id": userID,
		},
	})
}

func (h *Hub) GameStarted(roomID model.RoomID, pairsCount int) {
	h.BroadcastToRoom(roomID, Message{
		Type:   GameStarted,
		RoomID: roomID,
		Data: map[string]any{
			"pairs_count": pairsCount,
		},
	})
}

func (h *Hub) StartClientReading(client *Client) {
	defer func() {
		h.RemoveClient(client)
		client.Conn.Close()
	}()

	for {
		_, _, err := client.Conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

func (h *Hub) StartClientWriting(client *Client) {
	defer client.Conn.Close()

	for message := range client.Send {
		err := client.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			break
		}
	}
}
