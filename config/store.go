package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"wiz-homes/store"
)

// OpenStore returns the key-value store selected by STORE_DRIVER and a func
// releasing its connection.
func OpenStore(cfg *Config) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case "", "memory":
		log.Warn("using in-memory store; data is lost on restart")
		return store.NewMemory(), func() {}, nil
	case "mysql":
		db, err := ConnectDatabase(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mysql: %w", err)
		}
		closer := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return store.NewGorm(db), closer, nil
	case "redis":
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return store.NewRedis(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
