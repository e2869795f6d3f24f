package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/OmarAli141/resumes-comparison/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const (
	clientName = "resmatch"

	readyBackoffStart = 50 * time.Millisecond
	readyBackoffMax   = 2 * time.Second
)

// Config holds connection parameters. Driver is "valkey" or "redis" and only
// labels errors: both speak the same FT.* dialect.
type Config struct {
	Driver   string
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store implements db.Store via rueidis. It serves Redis 8+ and Valkey with
// valkey-search alike; only FT.CREATE, FT.DROPINDEX, FT.SEARCH KNN and plain
// hash/string commands are used.
type Store struct {
	client rueidis.Client
	driver string
}

// NewStore connects to the configured addresses.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	driver := cfg.Driver
	if driver == "" {
		driver = "valkey"
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   clientName,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH reply parsing expects RESP2 arrays
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s %v: %w", driver, cfg.Addrs, err)
	}

	return &Store{client: client, driver: driver}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("%s ping: %w", s.driver, err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings immediately, then with doubling backoff, until the store
// answers or timeout expires. Useful when the server starts alongside us.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := readyBackoffStart
	var lastErr error
	for {
		if lastErr = s.Ping(ctx); lastErr == nil {
			return nil
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("timeout waiting for %s: %w (last error: %v)", s.driver, ctx.Err(), lastErr)
		case <-t.C:
		}
		delay = min(delay*2, readyBackoffMax)
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server error reply containing substr.
// Redis and valkey-search word the same conditions with different casing.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return containsIgnoreCase(re.Error(), substr)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
