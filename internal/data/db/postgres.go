package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string `json:"driver"`

	PostgresHost     string `json:"postgres_host"`
	PostgresPort     string `json:"postgres_port"`
	PostgresUser     string `json:"postgres_user"`
	PostgresPassword string `json:"postgres_password"`
	PostgresName     string `json:"postgres_name"`
	PostgresSSLMode  string `json:"postgres_sslmode"`

	SQLitePath string `json:"sqlite_path"`
}

func (c Config) DSN() string {
	if c.driver() == DriverSQLite {
		if c.SQLitePath == "" {
			return "file:slideforge.db?_foreign_keys=on"
		}
		return c.SQLitePath
	}
	ssl := c.PostgresSSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
		ssl,
	)
}

func (c Config) driver() string {
	if strings.EqualFold(strings.TrimSpace(c.Driver), DriverSQLite) {
		return DriverSQLite
	}
	return DriverPostgres
}

type Service struct {
	db     *gorm.DB
	log    *logger.Logger
	driver string
}

func NewService(logg *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := logg.With("service", "DBService", "driver", cfg.driver())

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.driver() {
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.DSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
	default:
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(20)
			sqlDB.SetMaxIdleConns(5)
			sqlDB.SetConnMaxLifetime(30 * time.Minute)
		}
	}

	serviceLog.Info("Database connected")
	return &Service{db: db, log: serviceLog, driver: cfg.driver()}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Driver() string { return s.driver }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
