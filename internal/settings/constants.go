package settings

// DB config keys and defaults for settings.
const (
	// HelmetFeeKey is the per-helmet custody fee in minor units.
	HelmetFeeKey = "HELMET_FEE"
	// DefaultCommissionKey is the commission percentage used for washers created without one.
	DefaultCommissionKey = "GLOBAL_BONUS_PERCENTAGE"
	// LockRedisEnabledKey toggles Redis-backed keyed locks.
	LockRedisEnabledKey = "LOCK_REDIS_ENABLED"
	// LockRedisAddrKey defines the Redis address for keyed locks.
	LockRedisAddrKey = "LOCK_REDIS_ADDR"
	// LockRedisPasswordKey defines the Redis password for keyed locks.
	LockRedisPasswordKey = "LOCK_REDIS_PASSWORD"
	// LockRedisDBKey defines the Redis DB index for keyed locks.
	LockRedisDBKey = "LOCK_REDIS_DB"
	// LockRedisPrefixKey defines the Redis key prefix for keyed locks.
	LockRedisPrefixKey = "LOCK_REDIS_PREFIX"
	// DefaultHelmetFee is the fallback helmet fee (minor units).
	DefaultHelmetFee = 100000
	// DefaultCommissionPercentage is the fallback washer commission.
	DefaultCommissionPercentage = 15
	// DefaultLockRedisPrefix is the fallback Redis key prefix.
	DefaultLockRedisPrefix = "parkwash:lock"
)
