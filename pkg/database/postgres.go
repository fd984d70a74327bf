package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"courier-chat/config"
	"courier-chat/internal/domain/message"
	"courier-chat/internal/domain/thread"
	"courier-chat/internal/domain/user"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

var ErrNotConnected = errors.New("database not initialized")

// Models lists every table owned by the service, in creation order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&thread.Thread{},
		&thread.Participant{},
		&message.Message{},
	}
}

func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

// GormConfig returns the shared gorm settings. Driver errors are translated so
// unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig(mode string) *gorm.Config {
	level := logger.Info
	if mode == "release" {
		level = logger.Warn
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Open connects to Postgres and configures the pool.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(DSN(cfg)), GormConfig(cfg.AppMode))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get generic database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func Connect(cfg *config.Config) {
	var err error
	DB, err = Open(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Println("Database connection established")
}

// Migrate creates or updates the chat schema.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return ErrNotConnected
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func Ping() error {
	if DB == nil {
		return ErrNotConnected
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// HealthCheck pings the global connection with a short deadline.
func HealthCheck() error {
	if DB == nil {
		return ErrNotConnected
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

func TableExists(table string) (bool, error) {
	if DB == nil {
		return false, ErrNotConnected
	}
	return DB.Migrator().HasTable(table), nil
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// DropAll drops every table owned by the service, children first.
func DropAll(db *gorm.DB) error {
	if db == nil {
		return ErrNotConnected
	}
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

func TableCount(table string) (int64, error) {
	if DB == nil {
		return 0, ErrNotConnected
	}
	var n int64
	err := DB.Table(table).Count(&n).Error
	return n, err
}
