package store

import (
	"context"
	"fmt"
)

// Backend kinds.
const (
	KindSQLite = "sqlite"
	KindRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Kind  string
	DSN   string // sqlite path or DSN
	Redis RedisOptions
}

// OpenBackend opens the backend named by opts.Kind.
func OpenBackend(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case "", KindSQLite:
		dsn := opts.DSN
		if dsn == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
			dsn = p
		}
		return Open(dsn)
	case KindRedis:
		return OpenRedis(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Kind)
	}
}
