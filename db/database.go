package db

import (
	"fmt"
	"time"

	"bg3-mod-manager/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// gormWriter sends GORM's log lines to the application logger.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logger.Log.Debugf(format, args...)
}

// Open connects to the SQLite database at dbPath and migrates every model.
// Use ":memory:" for a throwaway database.
func Open(dbPath string) (*gorm.DB, error) {
	newLogger := gormlogger.New(
		gormWriter{},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(gormlite.Open(dbPath), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// SQLite allows a single writer; an in-memory database also lives only as
	// long as its connection.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = gdb.AutoMigrate(&Mod{}, &ModRef{}, &Profile{}, &LoadOrder{}, &LoadOrderEntry{}, &LoadOrderVersion{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return gdb, nil
}

// InitDatabase opens the database and stores it in DB.
func InitDatabase(dbPath string) error {
	gdb, err := Open(dbPath)
	if err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Close releases the underlying connection.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
