package node

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Credentials holds the stored database credentials the host supplies.
type Credentials struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// CredentialsFromEnv reads credentials from CHATMEMORY_DB_* environment
// variables, with defaults matching a local development database.
// DATABASE_URL, when set, takes precedence over the individual variables and
// is returned as-is by [Credentials.DSN].
func CredentialsFromEnv() Credentials {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		return Credentials{Database: databaseURL}
	}

	creds := Credentials{
		Host:     envOrDefault("CHATMEMORY_DB_HOST", "localhost"),
		Port:     5432,
		Database: envOrDefault("CHATMEMORY_DB_NAME", "chatmemory"),
		User:     envOrDefault("CHATMEMORY_DB_USER", "postgres"),
		Password: os.Getenv("CHATMEMORY_DB_PASSWORD"),
		SSLMode:  envOrDefault("CHATMEMORY_DB_SSLMODE", "disable"),
	}
	if port := strings.TrimSpace(os.Getenv("CHATMEMORY_DB_PORT")); port != "" {
		fmt.Sscanf(port, "%d", &creds.Port)
	}
	return creds
}

// DSN assembles the PostgreSQL connection string. When the Database field
// already holds a full URL (as produced by CredentialsFromEnv from
// DATABASE_URL), it is returned unchanged.
func (c Credentials) DSN() string {
	if strings.HasPrefix(c.Database, "postgres://") || strings.HasPrefix(c.Database, "postgresql://") {
		return c.Database
	}

	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}

	dsn := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		if c.Password != "" {
			dsn.User = url.UserPassword(c.User, c.Password)
		} else {
			dsn.User = url.User(c.User)
		}
	}
	if c.SSLMode != "" {
		query := url.Values{}
		query.Set("sslmode", c.SSLMode)
		dsn.RawQuery = query.Encode()
	}
	return dsn.String()
}

// ResolvePool opens a pgx connection pool from the credentials and verifies
// connectivity with a ping. Invalid or unreachable credentials fail here,
// before any memory is built. The caller owns the returned pool and is
// responsible for closing it; memories and stores built on top of it never
// do.
func ResolvePool(ctx context.Context, creds Credentials) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, creds.DSN())
	if err != nil {
		return nil, fmt.Errorf("node: parse connection config: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("node: connect: %w", err)
	}
	return pool, nil
}

// envOrDefault returns the environment variable's value, or fallback when it
// is unset or blank.
func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
