package results

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// key 约定：
//
//	zset: results:wins          -> name: 胜场
//	zset: results:games         -> name: 局数
//	kv  : results:game:{id}     -> 整局记录 JSON
const (
	winsKey  = "results:wins"
	gamesKey = "results:games"
)

func gameKey(id string) string {
	return fmt.Sprintf("results:game:%s", id)
}

type redisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (r *redisStore) Record(ctx context.Context, res GameResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, gameKey(res.ID), data, 0)
		for _, pl := range res.Players {
			if pl.Bot {
				continue
			}
			p.ZIncrBy(ctx, gamesKey, 1, pl.Name)
			// 保证输过的玩家也有 wins 成员
			p.ZIncrBy(ctx, winsKey, boolScore(pl.Won), pl.Name)
		}
		return nil
	})
	return err
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (r *redisStore) Top(ctx context.Context, n int) ([]Standing, error) {
	games, err := r.rdb.ZRangeWithScores(ctx, gamesKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	wins, err := r.rdb.ZRangeWithScores(ctx, winsKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(wins))
	for _, z := range wins {
		byName[fmt.Sprint(z.Member)] = int(z.Score)
	}

	out := make([]Standing, 0, len(games))
	for _, z := range games {
		name := fmt.Sprint(z.Member)
		out = append(out, Standing{Name: name, Wins: byName[name], Games: int(z.Score)})
	}
	sortStandings(out)
	return limit(out, n), nil
}
