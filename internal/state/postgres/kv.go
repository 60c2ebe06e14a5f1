package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/hours-portal/internal/core/datamodel/appstate"
	"github.com/frahmantamala/hours-portal/internal/state"
)

// KV stores state documents in the app_states table. It works with any
// gorm dialect; the server uses postgres or sqlite.
type KV struct {
	db *gorm.DB
}

func NewKV(db *gorm.DB) *KV {
	return &KV{db: db}
}

func (r *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var rec appstate.AppStateRecord
	err := r.db.WithContext(ctx).Where("state_key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, state.ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(rec.Payload), nil
}

// Set inserts or overwrites the document for key.
func (r *KV) Set(ctx context.Context, key string, value []byte) error {
	rec := appstate.AppStateRecord{
		StateKey:  key,
		Payload:   string(value),
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

func (r *KV) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("state_key = ?", key).Delete(&appstate.AppStateRecord{}).Error
}

func (r *KV) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
