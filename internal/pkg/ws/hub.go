package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Message 推送给前端的统一消息格式
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client 一条 WebSocket 连接
type Client struct {
	UserID int64
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

func (c *Client) write(payload []byte) error {
	// gorilla 的连接不允许并发写
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub 按用户维护在线连接，同一用户允许多条连接（多标签页、重连）
type Hub struct {
	mu    sync.RWMutex
	conns map[int64][]*Client
	total int
}

func NewHub() *Hub {
	return &Hub{conns: make(map[int64][]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.conns[client.UserID] = append(h.conns[client.UserID], client)
	h.total++
	total := h.total
	h.mu.Unlock()

	log.Printf("User %d connected, total connections: %d", client.UserID, total)
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	list := h.conns[client.UserID]
	for i, c := range list {
		if c == client {
			list = append(list[:i], list[i+1:]...)
			h.total--
			break
		}
	}
	if len(list) == 0 {
		delete(h.conns, client.UserID)
	} else {
		h.conns[client.UserID] = list
	}
	h.mu.Unlock()

	log.Printf("User %d disconnected", client.UserID)
}

// SendToUser 推送消息到该用户的全部连接。用户不在线不算错误。
func (h *Hub) SendToUser(userID int64, msg *Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*Client, len(h.conns[userID]))
	copy(targets, h.conns[userID])
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(payload); err != nil {
			log.Printf("Push to user %d failed: %v", userID, err)
		}
	}
	return nil
}

// IsOnline 用户是否有在线连接
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}

// ConnectionCount 当前总连接数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}
