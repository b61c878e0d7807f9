package persistence

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"video-bot/infrastructure/configuration"

	_ "github.com/lib/pq"
)

// NewPostgreSQLDB creates a sql.DB for PostgreSQL using native database/sql.
func NewPostgreSQLDB() (*sql.DB, error) {
	cfg := configuration.C.Database.Psql

	u := &url.URL{Scheme: "postgres", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port), Path: "/" + cfg.Name}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()

	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
