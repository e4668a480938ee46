package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// OpenDB 打开战绩库：postgres 用于部署，sqlite 用于单机与测试
func OpenDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// sqlite 单写者
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func InitDB(driver, dsn string) error {
	db, err := OpenDB(driver, dsn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}
