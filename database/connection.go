package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/config"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and applies the pool settings.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := getDialector(cfg, cfg.Name)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database %s: %w", cfg.Driver, cfg.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer; one connection keeps transactions serialized.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func getDialector(cfg config.DatabaseConfig, dbName string) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.Host, cfg.User, cfg.Password, dbName, cfg.Port)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, dbName)
		return mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, dbName)
		return sqlserver.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dbName), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.Driver)
	}
}

// EnsureDatabaseExists connects to the server's maintenance database and
// creates cfg.Name when it is missing. sqlite creates files on open.
func EnsureDatabaseExists(cfg config.DatabaseConfig) error {
	if cfg.Driver == "sqlite" {
		return nil
	}
	if !isValidDBName(cfg.Name) {
		return fmt.Errorf("invalid database name %q", cfg.Name)
	}

	var maintenance string
	switch cfg.Driver {
	case "postgres":
		maintenance = "postgres"
	case "mssql":
		maintenance = "master"
	}

	dialector, err := getDialector(cfg, maintenance)
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return fmt.Errorf("connect to DB server: %w", err)
	}
	defer Close(db)

	switch cfg.Driver {
	case "postgres":
		var exists bool
		if err := db.Raw("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = ?)", cfg.Name).Scan(&exists).Error; err != nil {
			return err
		}
		if exists {
			return nil
		}
		return db.Exec("CREATE DATABASE " + cfg.Name).Error
	case "mysql":
		return db.Exec("CREATE DATABASE IF NOT EXISTS " + cfg.Name).Error
	case "mssql":
		return db.Exec("IF DB_ID('" + cfg.Name + "') IS NULL CREATE DATABASE " + cfg.Name).Error
	}
	return nil
}

func isValidDBName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
