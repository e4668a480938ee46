package matchmaker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

// key 约定：
//
//	kv: mm:room:{roomID}         -> Room JSON
//	kv: mm:playerRoom:{name}     -> roomID
//	两者设置相同 TTL，避免长期遗留
func roomKey(roomID string) string {
	return fmt.Sprintf("mm:room:%s", roomID)
}
func playerKey(name string) string {
	return fmt.Sprintf("mm:playerRoom:%s", name)
}

func (r *redisRepo) SaveRoom(ctx context.Context, room *Room, ttlSeconds int) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	p := r.rdb.Pipeline()
	p.Set(ctx, roomKey(room.ID), data, ttl)
	p.Set(ctx, playerKey(room.Player), room.ID, ttl)
	_, err = p.Exec(ctx)
	return err
}

func (r *redisRepo) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	data, err := r.rdb.Get(ctx, roomKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var room Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", roomID, err)
	}
	return &room, nil
}

func (r *redisRepo) PlayerRoom(ctx context.Context, name string) (string, error) {
	val, err := r.rdb.Get(ctx, playerKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Lua 脚本：读取并删除 playerKey，同时删除对应的房间
// KEYS[1] = playerKey, ARGV[1] = room key 前缀
var removeScript = redis.NewScript(`
local id = redis.call("GET", KEYS[1])
if not id then
    return ""
end
redis.call("DEL", KEYS[1])
redis.call("DEL", ARGV[1] .. id)
return id
`)

func (r *redisRepo) Remove(ctx context.Context, name string) (string, error) {
	id, err := removeScript.Run(ctx, r.rdb, []string{playerKey(name)}, roomKey("")).Text()
	if err == nil {
		return id, nil
	}

	// 脚本不可用时回退到非原子实现
	id, err = r.PlayerRoom(ctx, name)
	if err != nil || id == "" {
		return "", err
	}
	p := r.rdb.Pipeline()
	p.Del(ctx, playerKey(name))
	p.Del(ctx, roomKey(id))
	if _, err := p.Exec(ctx); err != nil {
		return "", err
	}
	return id, nil
}
