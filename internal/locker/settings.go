package locker

import (
	"strings"

	internalsettings "github.com/pms-parking/parkwash/internal/settings"
)

// SettingsConfig captures the lock backend settings.
type SettingsConfig struct {
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// SnapshotProvider layers DB-backed settings from snap over the file configuration base.
func SnapshotProvider(snap *internalsettings.Snapshot, base SettingsConfig) SettingsProvider {
	return func() SettingsConfig {
		cfg := base
		cfg.RedisEnabled = snap.Bool(internalsettings.LockRedisEnabledKey, cfg.RedisEnabled)
		cfg.RedisAddr = snap.String(internalsettings.LockRedisAddrKey, cfg.RedisAddr)
		cfg.RedisPassword = snap.String(internalsettings.LockRedisPasswordKey, cfg.RedisPassword)
		cfg.RedisDB = snap.Int(internalsettings.LockRedisDBKey, cfg.RedisDB)
		cfg.RedisPrefix = snap.String(internalsettings.LockRedisPrefixKey, cfg.RedisPrefix)
		return normalizeSettings(cfg)
	}
}

func normalizeSettings(cfg SettingsConfig) SettingsConfig {
	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)
	cfg.RedisPassword = strings.TrimSpace(cfg.RedisPassword)
	cfg.RedisPrefix = strings.TrimSpace(cfg.RedisPrefix)
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = internalsettings.DefaultLockRedisPrefix
	}
	if cfg.RedisDB < 0 {
		cfg.RedisDB = 0
	}
	return cfg
}
