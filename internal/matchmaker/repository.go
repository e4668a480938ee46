package matchmaker

import "context"

// Repo 定义对房间登记的抽象操作
type Repo interface {
	// SaveRoom 保存房间并建立 玩家 → 房间 的映射
	SaveRoom(ctx context.Context, room *Room, ttlSeconds int) error
	// GetRoom 按 ID 读取房间，不存在返回 nil
	GetRoom(ctx context.Context, roomID string) (*Room, error)
	// PlayerRoom 返回玩家当前所在房间，不在房间返回 ""
	PlayerRoom(ctx context.Context, name string) (string, error)
	// Remove 删除玩家的房间（用于离开），返回被删除的房间 ID
	Remove(ctx context.Context, name string) (string, error)
}
