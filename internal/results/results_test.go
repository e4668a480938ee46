package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"VibeJo/internal/game/table"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func finalState(human string, totals ...int) *table.State {
	s := &table.State{Phase: table.PhaseGameFinished, Round: 4}
	for i, t := range totals {
		p := table.Participant{ID: "1", Name: human, Total: t}
		if i > 0 {
			p.ID = string(rune('1' + i))
			p.Name = "Bot " + string(rune('0'+i))
		}
		s.Players = append(s.Players, p)
	}
	return s
}

func TestFromStateLowestTotalWins(t *testing.T) {
	r := FromState("room-1", finalState("alice", 40, 12, 103))

	assert.Equal(t, "room-1", r.RoomID)
	assert.Equal(t, 4, r.Rounds)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "Bot 1", r.Winner)
	require.Len(t, r.Players, 3)
	assert.False(t, r.Players[0].Bot)
	assert.True(t, r.Players[1].Bot)
	assert.True(t, r.Players[1].Won)
	assert.False(t, r.Players[0].Won)
}

func TestFromStateTieGoesToFirstSeat(t *testing.T) {
	r := FromState("room-2", finalState("bob", 20, 20, 110))
	assert.Equal(t, "bob", r.Winner)
	assert.True(t, r.Players[0].Won)
	assert.False(t, r.Players[1].Won)
}

// ✅ 提前 end_game 的对局不进排行榜，打满分数上限的才记录
func TestRecordFinalSkipsAbortedGames(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		_, err := RecordFinal(ctx, store, "quick", finalState("mallory", 0, 0))
		assert.ErrorIs(t, err, ErrAborted)
	}
	notFinished := finalState("mallory", 5, 120)
	notFinished.Phase = table.PhasePlaying
	_, err := RecordFinal(ctx, store, "live", notFinished)
	assert.ErrorIs(t, err, ErrAborted)
	_, err = RecordFinal(ctx, store, "nil", nil)
	assert.ErrorIs(t, err, ErrAborted)

	top, err := store.Top(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, top)

	res, err := RecordFinal(ctx, store, "full", finalState("mallory", 30, 104))
	require.NoError(t, err)
	assert.Equal(t, "mallory", res.Winner)

	top, err = store.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []Standing{{Name: "mallory", Wins: 1, Games: 1}}, top)
}

// 三种实现走同一套校验
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, FromState("r1", finalState("alice", 10, 50, 101))))
	require.NoError(t, store.Record(ctx, FromState("r2", finalState("alice", 90, 30))))
	require.NoError(t, store.Record(ctx, FromState("r3", finalState("bob", 5, 100))))
	require.NoError(t, store.Record(ctx, FromState("r4", finalState("carol", 80, 2))))

	top, err := store.Top(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []Standing{
		{Name: "bob", Wins: 1, Games: 1},
		{Name: "alice", Wins: 1, Games: 2},
		{Name: "carol", Wins: 0, Games: 1},
	}, top, "bots never enter the leaderboard")

	top, err = store.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "bob", top[0].Name)
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	runStoreContract(t, NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()})))

	keys := mr.Keys()
	assert.Contains(t, keys, winsKey)
	assert.Contains(t, keys, gamesKey)
}

func TestSQLStoreSqlite(t *testing.T) {
	db, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	store, err := NewSQLStore(context.Background(), db, "sqlite")
	require.NoError(t, err)
	runStoreContract(t, store)

	var games int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM game_results`).Scan(&games))
	assert.Equal(t, 4, games)

	// 重复建表是幂等的
	_, err = NewSQLStore(context.Background(), db, "sqlite")
	assert.NoError(t, err)
}

func TestRebind(t *testing.T) {
	pg := &sqlStore{driver: "postgres"}
	assert.Equal(t, "VALUES ($1, $2, $3)", pg.rebind("VALUES (?, ?, ?)"))

	lite := &sqlStore{driver: "sqlite"}
	assert.Equal(t, "VALUES (?, ?)", lite.rebind("VALUES (?, ?)"))
}

func TestTopHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewMemoryStore()
	require.NoError(t, store.Record(context.Background(), FromState("r1", finalState("alice", 1, 50))))

	r := gin.New()
	r.GET("/results/top", NewHandler(store).Top)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/results/top?n=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var top []Standing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &top))
	assert.Equal(t, []Standing{{Name: "alice", Wins: 1, Games: 1}}, top)

	for _, q := range []string{"n=0", "n=abc", "n=1000"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/results/top?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	empty := gin.New()
	empty.GET("/results/top", NewHandler(NewMemoryStore()).Top)
	w = httptest.NewRecorder()
	empty.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/results/top", nil))
	assert.JSONEq(t, "[]", w.Body.String())
}
