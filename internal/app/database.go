package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/zincstore/zincstore/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// getDatabase opens the ledger database. SQLite files are resolved against
// dataDir unless Name is absolute.
func getDatabase(cfg config.DBConfig, dataDir string) *gorm.DB {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name, time.Local.String())
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), gcfg)
	case "sqlite":
		dbfile := cfg.Name
		if !filepath.IsAbs(dbfile) {
			dbfile = filepath.Join(dataDir, dbfile)
		}
		db, err = gorm.Open(sqlite.Open(dbfile), gcfg)
	default:
		zap.S().Fatalf("unsupported database type %q", cfg.Type)
	}
	if err != nil {
		zap.S().Fatalf("open %s database error: %s", cfg.Type, err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Fatalf("database pool error: %s", err.Error())
	}
	if cfg.Type == "sqlite" {
		// a single writer keeps sqlite transactions from failing with SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db
}
