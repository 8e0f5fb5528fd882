package psql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type Options struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (o Options) ConnString() string {
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		o.Host, o.Port, o.User, o.Password, o.Database, sslMode)
}

func Connect(ctx context.Context, opts Options) (*sql.DB, error) {
	return connect(ctx, "postgres", opts.ConnString())
}

func connect(ctx context.Context, driverName, connStr string) (*sql.DB, error) {
	dbConn, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to open postgres pool: %w", err)
	}

	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("unable to ping postgres: %w", err)
	}

	return dbConn, nil
}
