package websocket

import (
	"sync"

	"VibeJo/internal/utils"
)

type HubInterface interface {
	BroadcastToPlayers(names []string, msg OutgoingMessage)
	ClientByName(name string) (*Client, bool)
	SendToPlayer(name string, msg OutgoingMessage)
	Close()
}

// Hub 维护 玩家名 → 连接。
//
// 发送直接在读锁下以非阻塞方式写入 client.Send，不经过 Run 循环：
// OnIncoming 在 Run 循环里执行，游戏层在回调中再发消息时不会等待自己。
type Hub struct {
	clients    map[string]*Client // name -> client
	register   chan *Client
	incoming   chan IncomingMessage
	OnIncoming func(IncomingMessage)
	quit       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		incoming: make(chan IncomingMessage),
		quit:     make(chan struct{}),
	}
}

func (h *Hub) Run() {
	utils.Print.Info("hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			// 同名重连：踢掉旧连接
			if old, ok := h.clients[c.Name]; ok && old != c {
				close(old.Send)
			}
			h.clients[c.Name] = c
			utils.Print.Debug("hub register", "name", c.Name, "clients", len(h.clients))
			h.mu.Unlock()

		case req := <-h.incoming:
			// !!!! 这里把玩家消息统一转发给游戏层（GameManager）
			if h.OnIncoming != nil {
				h.OnIncoming(req)
			}

		case <-h.quit:
			h.mu.Lock()
			for name, c := range h.clients {
				close(c.Send)
				delete(h.clients, name)
			}
			h.mu.Unlock()
			utils.Print.Info("hub stopped")
			return
		}
	}
}

// Register 交给 Run 循环登记；hub 已关闭时返回 false
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

// unregister 可重复调用：读写两个协程都会触发
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.Name]; ok && cur == c {
		delete(h.clients, c.Name)
		close(c.Send)
		utils.Print.Debug("hub unregister", "name", c.Name, "clients", len(h.clients))
	}
}

// deliver 把读到的消息交给 Run 循环；hub 关闭后丢弃
func (h *Hub) deliver(msg IncomingMessage) bool {
	select {
	case h.incoming <- msg:
		return true
	case <-h.quit:
		return false
	}
}

// 读锁内非阻塞写入，慢客户端丢消息
func (h *Hub) sendLocked(name string, msg OutgoingMessage) {
	client, ok := h.clients[name]
	if !ok {
		return
	}
	select {
	case client.Send <- msg:
	default:
		utils.Print.Warn("client send buffer full, dropping", "name", name, "event", msg.Event)
	}
}

// Broadcast to multiple players
func (h *Hub) BroadcastToPlayers(names []string, msg OutgoingMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, name := range names {
		h.sendLocked(name, msg)
	}
}

// Send to a single player (safe concurrent)
func (h *Hub) SendToPlayer(name string, msg OutgoingMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendLocked(name, msg)
}

// Lookup for a player client by name
func (h *Hub) ClientByName(name string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[name]
	return c, ok
}

// Count 当前连接数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}
