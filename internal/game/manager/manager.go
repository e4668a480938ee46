package manager

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"VibeJo/internal/game/agent"
	"VibeJo/internal/game/table"
	"VibeJo/internal/matchmaker"
	"VibeJo/internal/utils"
	"VibeJo/internal/websocket"
)

var ErrRoomExists = errors.New("room exists")

// 玩家消息事件
const (
	EventPlayerAction = "player_action"
	EventSync         = "sync"
	EventError        = "error"
)

// OnGameEndFunc 整局结束回调：房间 ID 与终局状态
type OnGameEndFunc func(roomID string, final *table.State)

// GameManager 管理所有对局
type GameManager struct {
	mu           sync.RWMutex
	sessions     map[string]*Session // roomID → session
	playerToRoom map[string]string   // player name → roomID
	hub          websocket.HubInterface

	// 机器人节奏，零值使用 agent 默认值
	MinDelay time.Duration
	MaxDelay time.Duration

	OnGameEnd OnGameEndFunc
}

func NewGameManager(hub websocket.HubInterface) *GameManager {
	return &GameManager{
		sessions:     make(map[string]*Session),
		playerToRoom: make(map[string]string),
		hub:          hub,
	}
}

// Seats 真人固定为 "1"，机器人依次为 "2".."n+1"
func Seats(player string, bots int) []table.Participant {
	out := []table.Participant{{ID: agent.HumanID, Name: player}}
	for i := 1; i <= bots; i++ {
		out = append(out, table.Participant{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("Bot %d", i)})
	}
	return out
}

// StartRoom 创建桌子并启动 session
func (m *GameManager) StartRoom(r *matchmaker.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[r.ID]; ok {
		return fmt.Errorf("%w: %s", ErrRoomExists, r.ID)
	}

	sess := NewSession(r.ID, r.Player, Seats(r.Player, r.Bots), time.Now().UnixNano(), m.hub)
	if m.MinDelay > 0 {
		sess.Bot().MinDelay = m.MinDelay
	}
	if m.MaxDelay > 0 {
		sess.Bot().MaxDelay = m.MaxDelay
	}
	sess.OnGameEnd = func(final *table.State) {
		// 落库等慢操作不能占住 hub 的读循环
		if m.OnGameEnd != nil {
			go m.OnGameEnd(r.ID, final)
		}
	}

	// 旧房间让位
	if old, ok := m.playerToRoom[r.Player]; ok {
		m.closeLocked(old)
	}
	m.sessions[r.ID] = sess
	m.playerToRoom[r.Player] = r.ID

	utils.Print.Info("room started", "room", r.ID, "player", r.Player, "bots", r.Bots)

	// 异步进入游戏流程
	go sess.Start()

	return nil
}

// Session 按房间取 session
func (m *GameManager) Session(roomID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[roomID]
	return s, ok
}

// CloseRoom 关闭房间并停止机器人
func (m *GameManager) CloseRoom(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked(roomID)
}

// ClosePlayer 关闭玩家所在的房间
func (m *GameManager) ClosePlayer(player string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if roomID, ok := m.playerToRoom[player]; ok {
		m.closeLocked(roomID)
	}
}

func (m *GameManager) closeLocked(roomID string) {
	sess, ok := m.sessions[roomID]
	if !ok {
		return
	}
	sess.Close()
	delete(m.sessions, roomID)
	if m.playerToRoom[sess.Human] == roomID {
		delete(m.playerToRoom, sess.Human)
	}
	utils.Print.Info("room closed", "room", roomID)
}

// HandlePlayerMessage 统一入口（来自 Hub.OnIncoming）
func (m *GameManager) HandlePlayerMessage(msg websocket.IncomingMessage) {
	m.mu.RLock()
	roomID := m.playerToRoom[msg.From]
	sess := m.sessions[roomID]
	m.mu.RUnlock()

	if sess == nil {
		return
	}

	switch msg.Event {

	case EventPlayerAction:
		if err := sess.HandleHuman(msg.Data); err != nil {
			utils.Print.Warn("action rejected", "room", roomID, "player", msg.From, "err", err)
			m.hub.SendToPlayer(msg.From, websocket.OutgoingMessage{
				Event: EventError,
				Data:  map[string]any{"error": err.Error()},
			})
		}

	case EventSync:
		// 断线重连后补发当前状态
		m.hub.SendToPlayer(msg.From, websocket.OutgoingMessage{
			Event: EventState,
			Data:  sess.View(),
		})
	}
}
