package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var Rdb *redis.Client

// OpenRedis 连接房间登记使用的 redis，启动期 ping 超时即失败
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return rdb, nil
}

func InitRedis(ctx context.Context, addr, password string, db int) error {
	rdb, err := OpenRedis(ctx, addr, password, db)
	if err != nil {
		return err
	}
	Rdb = rdb
	return nil
}
