package results

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
    id          TEXT PRIMARY KEY,
    room_id     TEXT NOT NULL,
    rounds      INTEGER NOT NULL,
    winner      TEXT NOT NULL,
    finished_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS player_results (
    result_id TEXT NOT NULL REFERENCES game_results(id),
    name      TEXT NOT NULL,
    total     INTEGER NOT NULL,
    bot       BOOLEAN NOT NULL,
    won       BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS player_results_name ON player_results(name);
`

type sqlStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore 建表并返回存储；driver 为 postgres 或 sqlite
func NewSQLStore(ctx context.Context, db *sql.DB, driver string) (Store, error) {
	s := &sqlStore{db: db, driver: driver}
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("migrate results: %w", err)
		}
	}
	return s, nil
}

// rebind 把 ? 占位符换成 postgres 的 $n
func (s *sqlStore) rebind(q string) string {
	if s.driver != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) Record(ctx context.Context, r GameResult) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		s.rebind(`INSERT INTO game_results (id, room_id, rounds, winner, finished_at) VALUES (?, ?, ?, ?, ?)`),
		r.ID, r.RoomID, r.Rounds, r.Winner, r.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert game %s: %w", r.ID, err)
	}
	for _, p := range r.Players {
		if _, err = tx.ExecContext(ctx,
			s.rebind(`INSERT INTO player_results (result_id, name, total, bot, won) VALUES (?, ?, ?, ?, ?)`),
			r.ID, p.Name, p.Total, p.Bot, p.Won,
		); err != nil {
			return fmt.Errorf("insert player %s: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) Top(ctx context.Context, n int) ([]Standing, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
SELECT name,
       SUM(CASE WHEN won THEN 1 ELSE 0 END) AS wins,
       COUNT(*) AS games
FROM player_results
WHERE bot = ?
GROUP BY name
ORDER BY wins DESC, games ASC, name ASC
LIMIT ?`), false, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Name, &st.Wins, &st.Games); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
