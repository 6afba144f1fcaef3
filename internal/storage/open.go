package storage

import (
	"fmt"

	"github.com/MrSnakeDoc/hwtrack/internal/config"
	"github.com/MrSnakeDoc/hwtrack/internal/logger"
	"github.com/MrSnakeDoc/hwtrack/internal/redis"
)

// Open selects the Record implementation named by cfg.StorageDriver.
func Open(cfg *config.Config, log logger.Logger) (Record, error) {
	switch cfg.StorageDriver {
	case config.DriverFile:
		return NewFile(cfg.DataFile)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLitePath, cfg.RecordKey)
	case config.DriverMemory:
		log.Warn("memory storage selected, inventory will not survive a restart")
		return NewMemory(), nil
	case config.DriverRedis:
		client, err := redis.New(redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return NewRedis(client, cfg.RecordKey), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
