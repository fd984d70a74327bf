package database

import (
	"errors"
	"strings"
	"testing"

	"courier-chat/config"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	prev := DB
	DB = gdb
	t.Cleanup(func() {
		DB = prev
		_ = sqlDB.Close()
	})
	return mock
}

func TestHealthCheckHealthy(t *testing.T) {
	mock := mockDB(t)
	mock.ExpectPing()

	if err := HealthCheck(); err != nil {
		t.Fatalf("expected healthy database, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHealthCheckUnreachable(t *testing.T) {
	mock := mockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err := HealthCheck()
	if err == nil {
		t.Fatalf("expected health check to fail")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected driver error to be wrapped, got %v", err)
	}
}

func TestHealthCheckWithoutConnection(t *testing.T) {
	prev := DB
	DB = nil
	defer func() { DB = prev }()

	if err := HealthCheck(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if err := Ping(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected from Ping, got %v", err)
	}
}

func TestTruncatePostgres(t *testing.T) {
	mock := mockDB(t)
	mock.ExpectExec("TRUNCATE TABLE messages, thread_participants, threads").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := Truncate(DB); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost: "db", DBUser: "chat", DBPassword: "secret",
		DBName: "courier", DBPort: "5433", DBSSLMode: "require",
	}
	want := "host=db user=chat password=secret dbname=courier port=5433 sslmode=require TimeZone=UTC"
	if got := DSN(cfg); got != want {
		t.Fatalf("unexpected dsn\n got: %s\nwant: %s", got, want)
	}
}

func TestGormConfigTranslatesErrors(t *testing.T) {
	if !GormConfig("release").TranslateError {
		t.Fatalf("expected driver error translation to be enabled")
	}
}
