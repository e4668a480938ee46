package manager

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"VibeJo/internal/game/agent"
	"VibeJo/internal/game/engine"
	"VibeJo/internal/game/table"
	"VibeJo/internal/utils"
	"VibeJo/internal/websocket"
)

var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrSessionClosed = errors.New("session closed")
)

const EventState = "state"

// Session 一张桌子的宿主：独占状态，串行执行转移，并为机器人排定延迟动作。
//
// 机器人定时器以状态的 Version 为键：状态在定时器触发前已被推进时，
// 定时器发现版本不符直接丢弃，避免对错误的行动者执行过期动作。
type Session struct {
	ID    string
	Human string // 真人玩家名，也是 hub 地址

	engine *engine.Engine
	bot    *agent.Agent
	hub    websocket.HubInterface

	// OnGameEnd 整局结束时调用一次
	OnGameEnd func(final *table.State)

	mu     sync.Mutex
	state  *table.State
	timer  *time.Timer
	closed bool
}

func NewSession(id, human string, players []table.Participant, seed int64, hub websocket.HubInterface) *Session {
	e := engine.NewEngine(seed)
	return &Session{
		ID:     id,
		Human:  human,
		engine: e,
		bot:    agent.New(seed + 1),
		hub:    hub,
		state:  e.NewGame(players),
	}
}

// Bot 暴露机器人以便调整节奏
func (s *Session) Bot() *agent.Agent { return s.bot }

// Start 发牌
func (s *Session) Start() {
	s.Dispatch(engine.StartGame{})
}

// State 当前快照（只读）
func (s *Session) State() *table.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View 当前快照的前端视图
func (s *Session) View() table.View {
	return table.Snapshot(s.State())
}

// Dispatch 执行一个动作（不检查是谁的回合），返回状态是否改变
func (s *Session) Dispatch(a engine.Action) bool {
	s.mu.Lock()
	next, changed := s.applyLocked(a)
	s.mu.Unlock()

	if changed {
		s.publish(next)
	}
	return changed
}

// HandleHuman 处理真人玩家发来的动作载荷
func (s *Session) HandleHuman(data any) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	act, err := engine.ParseAction(data, s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	switch act.Kind() {
	case engine.KindEndTurn:
		// 结束回合只由引擎内部推进，客户端不能跳过自己的动作
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", engine.ErrUnknownAction, act.Kind())
	case engine.KindStartNewRound, engine.KindEndGame:
	default:
		if s.bot.IsBot(s.state) {
			s.mu.Unlock()
			return ErrNotYourTurn
		}
	}
	next, changed := s.applyLocked(act)
	s.mu.Unlock()

	if changed {
		s.publish(next)
	}
	return nil
}

// Close 停止定时器，之后的动作全部忽略
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimerLocked()
}

func (s *Session) applyLocked(a engine.Action) (*table.State, bool) {
	if s.closed {
		return nil, false
	}
	next := s.engine.Transition(s.state, a)
	if next == s.state {
		return nil, false
	}
	s.state = next
	s.scheduleLocked()
	return next, true
}

// scheduleLocked 取消旧定时器；若轮到机器人则按节奏延迟排一个新动作
func (s *Session) scheduleLocked() {
	s.stopTimerLocked()
	act := s.bot.Decide(s.state)
	if act == nil {
		return
	}
	version := s.state.Version
	s.timer = time.AfterFunc(s.bot.Delay(), func() {
		s.fire(version, act)
	})
}

func (s *Session) fire(version uint64, act engine.Action) {
	s.mu.Lock()
	if s.closed || s.state.Version != version {
		s.mu.Unlock()
		utils.Print.Debug("stale bot action dropped", "room", s.ID, "action", act.Kind(), "version", version)
		return
	}
	next, changed := s.applyLocked(act)
	s.mu.Unlock()

	if changed {
		s.publish(next)
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// publish 在锁外推送，避免与 hub 互相等待
func (s *Session) publish(next *table.State) {
	s.hub.SendToPlayer(s.Human, websocket.OutgoingMessage{
		Event: EventState,
		Data:  table.Snapshot(next),
	})

	switch next.Phase {
	case table.PhaseRoundFinished:
		utils.Print.Info("round finished", "room", s.ID, "round", next.Round, "endedBy", next.EndedBy)
	case table.PhaseGameFinished:
		utils.Print.Info("game finished", "room", s.ID, "round", next.Round)
		if s.OnGameEnd != nil {
			s.OnGameEnd(next)
		}
	}
}
