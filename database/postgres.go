package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const postgresBackendName = "postgres"

// PostgresBackend keeps the same repositories on a relational database.
type PostgresBackend struct {
	db                 *gorm.DB
	contactMessageRepo *PostgresContactMessageRepo
	projectRepo        *PostgresProjectRepo
}

// NewPostgresBackend initializes each repository on a shared GORM instance
func NewPostgresBackend(db *gorm.DB) *PostgresBackend {
	return &PostgresBackend{
		db:                 db,
		contactMessageRepo: NewPostgresContactMessageRepo(db),
		projectRepo:        NewPostgresProjectRepo(db),
	}
}

// gormLogWriter sends GORM's log lines to zerolog.
type gormLogWriter struct{}

func (gormLogWriter) Printf(format string, args ...interface{}) {
	log.Warn().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger() logger.Interface {
	return logger.New(
		gormLogWriter{},
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ConnectPostgres returns a Connector for a Postgres DSN (Supabase included).
func ConnectPostgres() Connector {
	return func(ctx context.Context, dsn string) (Backend, error) {
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
			Logger:      newGormLogger(),
		})
		if err != nil {
			return nil, fmt.Errorf("postgres open: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("postgres handle: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("postgres ping: %w", err)
		}

		return NewPostgresBackend(db), nil
	}
}

func (b *PostgresBackend) ContactMessages() ContactMessageRepository {
	return b.contactMessageRepo
}

func (b *PostgresBackend) Projects() ProjectRepository {
	return b.projectRepo
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (b *PostgresBackend) Migrate(ctx context.Context) error {
	return b.db.WithContext(ctx).AutoMigrate(&contactMessageRow{}, &projectRow{})
}

func (b *PostgresBackend) Close(context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
