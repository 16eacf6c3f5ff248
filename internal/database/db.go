package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/room-reservation/internal/config"
)

// Open connects to the configured database and verifies the connection.
func Open(cfg config.Config) (*sqlx.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	if cfg.DBDriver == config.DriverSQLite {
		// one writer at a time; transactions then serialise on the connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// DSN builds the driver specific connection string.  An explicit DB_DSN
// always wins.
func DSN(cfg config.Config) (string, error) {
	if cfg.DBDSN != "" {
		return cfg.DBDSN, nil
	}
	switch cfg.DBDriver {
	case config.DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPass
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
		mc.DBName = cfg.DBName
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN(), nil
	case config.DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.DBUser, cfg.DBPass),
			Host:     net.JoinHostPort(cfg.DBHost, cfg.DBPort),
			Path:     "/" + cfg.DBName,
			RawQuery: url.Values{"sslmode": {cfg.DBSSLMode}}.Encode(),
		}
		return u.String(), nil
	case config.DriverSQLite:
		return "reservations.db", nil
	}
	return "", fmt.Errorf("unsupported driver %q", cfg.DBDriver)
}

// TxOptions returns the isolation used for check-and-write transactions.
// SQLite transactions are already serialisable and the driver only accepts
// the default level.
func TxOptions(driver string) *sql.TxOptions {
	if driver == config.DriverSQLite {
		return &sql.TxOptions{}
	}
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}
