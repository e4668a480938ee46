package matchmaker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"VibeJo/internal/utils"
	"VibeJo/internal/websocket"

	"github.com/google/uuid"
)

var (
	ErrInvalidBots   = errors.New("invalid bot count")
	ErrInvalidName   = errors.New("invalid player name")
	ErrAlreadySeated = errors.New("player already in room")
)

const EventMatched = "matched"

type Service struct {
	repo         Repo
	roomTTL      int // seconds, 用于防止遗留房间
	hub          HubBroadcaster
	OnRoomReady  func(*Room)     // ✅ 开桌时调用的回调函数
	OnRoomClosed func(id string) // 离开房间时调用
}

type HubBroadcaster interface {
	BroadcastToPlayers(addrs []string, msg websocket.OutgoingMessage)
}

func NewService(repo Repo, roomTTL int, hub HubBroadcaster) *Service {
	return &Service{repo: repo, roomTTL: roomTTL, hub: hub}
}

// Join 为真人玩家开一张桌并补齐机器人。没有排队：单人对机器人立即成桌。
func (s *Service) Join(ctx context.Context, req JoinRequest) (*Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if req.Bots < MinBots || req.Bots > MaxBots {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidBots, req.Bots, MinBots, MaxBots)
	}

	// ❶ 防止重复开桌：检测玩家是否已经在房间中
	roomID, err := s.repo.PlayerRoom(ctx, name)
	if err != nil {
		return nil, err
	}
	if roomID != "" {
		return nil, fmt.Errorf("%w: %s in %s", ErrAlreadySeated, name, roomID)
	}

	room := &Room{
		ID:        uuid.NewString(),
		Player:    name,
		Bots:      req.Bots,
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveRoom(ctx, room, s.roomTTL); err != nil {
		return nil, err
	}

	// 通知玩家（通过 WebSocket Hub）
	s.hub.BroadcastToPlayers([]string{name}, websocket.OutgoingMessage{
		Event: EventMatched,
		Data: map[string]any{
			"roomId": room.ID,
			"player": room.Player,
			"bots":   room.Bots,
		},
	})
	utils.Print.Info("room opened", "room", room.ID, "player", name, "bots", room.Bots)

	// ✅ 启动游戏逻辑
	if s.OnRoomReady != nil {
		go s.OnRoomReady(room)
	}
	return room, nil
}

// Leave 离开当前房间，返回被关闭的房间 ID（不在房间时为 ""）
func (s *Service) Leave(ctx context.Context, name string) (string, error) {
	roomID, err := s.repo.Remove(ctx, name)
	if err != nil {
		return "", err
	}
	if roomID != "" && s.OnRoomClosed != nil {
		s.OnRoomClosed(roomID)
	}
	return roomID, nil
}

// Current 返回玩家所在房间
func (s *Service) Current(ctx context.Context, name string) (*Room, error) {
	roomID, err := s.repo.PlayerRoom(ctx, name)
	if err != nil || roomID == "" {
		return nil, err
	}
	return s.repo.GetRoom(ctx, roomID)
}
