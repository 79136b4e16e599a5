package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

// Hub fans ranking updates out to websocket clients watching a quiz.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

type Client struct {
	hub       *Hub
	id        string
	socket    *websocket.Conn
	send      chan []byte
	shareCode string
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type outbound struct {
	shareCode string
	data      []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client registered: %s for quiz %s - Total clients: %d", client.id, client.shareCode, h.clientTotal())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			log.Printf("Client unregistered: %s for quiz %s", client.id, client.shareCode)

		case message := <-h.broadcast:
			h.mutex.Lock()
			sent := 0
			for client := range h.clients {
				if client.shareCode != message.shareCode {
					continue
				}
				select {
				case client.send <- message.data:
					sent++
				default:
					log.Printf("Client %s send buffer full, closing connection", client.id)
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
			log.Printf("Ranking update sent to %d clients for quiz %s", sent, message.shareCode)
		}
	}
}

func (h *Hub) clientTotal() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ClientCount reports how many clients watch the given quiz.
func (h *Hub) ClientCount(shareCode string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	count := 0
	for client := range h.clients {
		if client.shareCode == shareCode {
			count++
		}
	}
	return count
}

func encodeMessage(messageType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Message{Type: messageType, Payload: payload})
}

// BroadcastRanking never blocks the caller; updates are dropped if the hub is saturated.
func (h *Hub) BroadcastRanking(shareCode string, ranking []RankingEntry) {
	data, err := encodeMessage("ranking", ranking)
	if err != nil {
		log.Printf("Error marshaling ranking for quiz %s: %v", shareCode, err)
		return
	}

	select {
	case h.broadcast <- outbound{shareCode: shareCode, data: data}:
	default:
		log.Printf("Hub broadcast queue full, dropping ranking update for quiz %s", shareCode)
	}
}

// RegisterClient starts serving conn and queues the current ranking as its first message.
func (h *Hub) RegisterClient(conn *websocket.Conn, shareCode string, initial []RankingEntry) *Client {
	client := &Client{
		hub:       h,
		id:        "client_" + uuid.NewString(),
		socket:    conn,
		send:      make(chan []byte, 256),
		shareCode: shareCode,
	}

	if data, err := encodeMessage("ranking", initial); err == nil {
		client.send <- data
	} else {
		log.Printf("Error marshaling initial ranking for quiz %s: %v", shareCode, err)
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// readPump only answers pings; the feed is read-only for clients.
func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	c.socket.SetReadLimit(maxMessageSize)

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		switch msg.Type {
		case "ping":
			c.hub.sendTo(c, "pong", "pong")
		default:
			log.Printf("Unknown message type: %s from client %s on quiz %s", msg.Type, c.id, c.shareCode)
		}
	}
}

// sendTo queues a direct reply for one client, holding the lock so the hub
// cannot close the channel concurrently.
func (h *Hub) sendTo(c *Client, messageType string, payload interface{}) {
	data, err := encodeMessage(messageType, payload)
	if err != nil {
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		c.socket.SetWriteDeadline(time.Now().Add(writeWait))

		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}

	c.socket.SetWriteDeadline(time.Now().Add(writeWait))
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}
