package locker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const redisBreakerDuration = 30 * time.Second

// SettingsProvider supplies the latest settings snapshot.
type SettingsProvider func() SettingsConfig

// RedisClientFactory constructs a Redis client for the given options.
type RedisClientFactory func(options *redis.Options) *redis.Client

type redisConfig struct {
	addr     string
	password string
	prefix   string
	db       int
}

// Manager selects a lock backend and acquires keyed locks.
type Manager struct {
	provider       SettingsProvider
	nowFn          func() time.Time
	memoryLocker   Backend
	newRedisClient RedisClientFactory
	ttl            time.Duration
	waitTimeout    time.Duration
	mu             sync.Mutex
	redisLocker    *RedisLocker
	redisCfg       redisConfig
	breakerUntil   time.Time
}

// NewManager constructs a Manager with default dependencies when nil.
func NewManager(provider SettingsProvider, nowFn func() time.Time, newRedisClient RedisClientFactory) *Manager {
	if provider == nil {
		provider = func() SettingsConfig { return normalizeSettings(SettingsConfig{}) }
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	if newRedisClient == nil {
		newRedisClient = redis.NewClient
	}
	return &Manager{
		provider:       provider,
		nowFn:          nowFn,
		memoryLocker:   NewMemoryLocker(),
		newRedisClient: newRedisClient,
		ttl:            DefaultTTL,
		waitTimeout:    DefaultWaitTimeout,
	}
}

// Acquire locks key using the best available backend. The returned release is
// safe to call once.
func (m *Manager) Acquire(ctx context.Context, key string) (func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if key == "" {
		return func() {}, nil
	}
	ctxWait, cancel := context.WithTimeout(ctx, m.waitTimeout)
	defer cancel()

	now := m.nowFn()
	cfg := m.provider()
	if cfg.RedisEnabled {
		if release, ok, errAcquire := m.acquireRedis(ctxWait, key, now, cfg); ok {
			return release, nil
		} else if errAcquire != nil {
			return nil, errAcquire
		}
	}
	release, errAcquire := m.memoryLocker.Acquire(ctxWait, key, m.ttl)
	if errAcquire != nil {
		return nil, waitError(errAcquire)
	}
	return release, nil
}

// acquireRedis returns ok=false with a nil error when the caller should fall back to memory.
func (m *Manager) acquireRedis(ctx context.Context, key string, now time.Time, cfg SettingsConfig) (func(), bool, error) {
	if m.isBreakerActive(now) {
		return nil, false, nil
	}
	locker, errEnsure := m.ensureRedis(ctx, cfg)
	if errEnsure != nil {
		m.tripBreaker(errEnsure, now)
		return nil, false, nil
	}
	release, errAcquire := locker.Acquire(ctx, key, m.ttl)
	if errAcquire != nil {
		if errors.Is(errAcquire, context.DeadlineExceeded) || errors.Is(errAcquire, context.Canceled) {
			return nil, false, waitError(errAcquire)
		}
		m.tripBreaker(errAcquire, now)
		return nil, false, nil
	}
	return release, true, nil
}

func waitError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrLockTimeout
	}
	return err
}

func (m *Manager) isBreakerActive(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.breakerUntil.IsZero() {
		return false
	}
	if now.Before(m.breakerUntil) {
		return true
	}
	m.breakerUntil = time.Time{}
	return false
}

func (m *Manager) tripBreaker(err error, now time.Time) {
	if err == nil || m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.breakerUntil.IsZero() && now.Before(m.breakerUntil) {
		return
	}
	m.breakerUntil = now.Add(redisBreakerDuration)
	log.WithError(err).Warn("locker: redis unavailable, falling back to memory")
}

func (m *Manager) ensureRedis(ctx context.Context, cfg SettingsConfig) (*RedisLocker, error) {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("locker redis: missing address")
	}

	nextCfg := redisConfig{
		addr:     addr,
		password: cfg.RedisPassword,
		prefix:   cfg.RedisPrefix,
		db:       cfg.RedisDB,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.redisLocker != nil && m.redisCfg == nextCfg {
		return m.redisLocker, nil
	}
	if m.redisLocker != nil {
		_ = m.redisLocker.client.Close()
		m.redisLocker = nil
	}

	client := m.newRedisClient(&redis.Options{
		Addr:     nextCfg.addr,
		Password: nextCfg.password,
		DB:       nextCfg.db,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if errPing := client.Ping(ctxPing).Err(); errPing != nil {
		_ = client.Close()
		return nil, errPing
	}
	m.redisLocker = NewRedisLocker(client, nextCfg.prefix)
	m.redisCfg = nextCfg
	return m.redisLocker, nil
}
