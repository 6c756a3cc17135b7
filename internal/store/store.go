// Package store keeps the link between chat users and their Riot accounts.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrAlreadyLinked = errors.New("riot account already linked")
var ErrNotLinked = errors.New("no linked riot account")

const uniqueViolation = "23505"

type Account struct {
	ID        uint64    `gorm:"primaryKey"`
	DiscordID string    `gorm:"type:text;not null;index"`
	PUUID     string    `gorm:"column:puuid;type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Account) TableName() string { return "accounts" }

type Store struct {
	db *gorm.DB
}

// Open connects to Postgres and makes sure the accounts table exists.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s := New(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// New wraps an open connection. Open it with TranslateError so duplicate links
// surface as ErrAlreadyLinked on every dialect.
func New(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Account{}); err != nil {
		return fmt.Errorf("migrate accounts: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Link attaches puuid to discordID. A PUUID can only belong to one user.
func (s *Store) Link(ctx context.Context, discordID, puuid string) error {
	err := s.db.WithContext(ctx).Create(&Account{DiscordID: discordID, PUUID: puuid}).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrAlreadyLinked, puuid)
	}
	return err
}

// Unlink removes every account linked to discordID.
func (s *Store) Unlink(ctx context.Context, discordID string) error {
	res := s.db.WithContext(ctx).Where("discord_id = ?", discordID).Delete(&Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotLinked
	}
	return nil
}

// PUUIDs returns the linked accounts oldest first, so the last one is the most recent link.
func (s *Store) PUUIDs(ctx context.Context, discordID string) ([]string, error) {
	var puuids []string
	err := s.db.WithContext(ctx).
		Model(&Account{}).
		Where("discord_id = ?", discordID).
		Order("created_at, id").
		Pluck("puuid", &puuids).Error
	return puuids, err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
