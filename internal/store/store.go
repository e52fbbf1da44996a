package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	KindPlace  = "place"
	KindCoords = "coords"

	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Lookup records that a weather lookup happened. Payloads are never stored.
type Lookup struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind      string    `gorm:"size:16" json:"kind"`
	Query     string    `json:"query"`
	Lat       *float64  `json:"lat,omitempty"`
	Lon       *float64  `json:"lon,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Status    int       `json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type Repo struct {
	db *gorm.DB
}

// Open connects to postgres or sqlite depending on driver. An empty driver
// means sqlite.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		if dsn == "" {
			dsn = "weather.db"
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres", "postgresql":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

func New(db *gorm.DB) (*Repo, error) {
	if err := db.AutoMigrate(&Lookup{}); err != nil {
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) RecordLookup(ctx context.Context, l *Lookup) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(l).Error
}

// Recent returns the newest lookups first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Lookup, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	var rows []Lookup
	err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
