package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	log "github.com/sirupsen/logrus"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wiz-homes/models"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	mc := mysql.NewConfig()
	mc.User = u.User.Username()
	mc.Passwd, _ = u.User.Password()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(u.Hostname(), port)
	mc.DBName = dbName
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}
	for k, v := range u.Query() {
		if len(v) > 0 {
			mc.Params[k] = v[0]
		}
	}
	return mc.FormatDSN(), nil
}

// ResolveMySQLDSN builds the DSN from MYSQL_URL (mysql:// URL or raw DSN) or
// the DB_* parts.
func ResolveMySQLDSN(cfg *Config) (string, error) {
	raw := strings.TrimSpace(cfg.MySQLURL)
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		mc, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("parse MYSQL_URL: %w", err)
		}
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	}

	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN(), nil
}

func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dsn, err := ResolveMySQLDSN(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.Env == "dev" {
		level = logger.Info
	}
	newLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      level,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		log.WithError(err).Info("cannot get raw sql.DB")
	}

	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return nil, err
	}
	return db, nil
}
