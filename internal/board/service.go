// Package board applies shot-list edits. Every operation runs behind an
// access predicate inside one database transaction, and numbering is
// recomputed from the stored order on every read.
package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brickshot/internal/domain/media"
	ds "brickshot/internal/domain/shotlist"
	"brickshot/internal/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStorageUnavailable = errors.New("attachment storage not configured")

type Service struct {
	db      *gorm.DB
	storage media.Storage
	log     *zap.Logger
	now     func() time.Time
}

// New wires a service. storage may be nil, in which case attachment
// operations fail with ErrStorageUnavailable.
func New(db *gorm.DB, storage media.Storage, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, storage: storage, log: log, now: time.Now}
}

func inTx[T any](ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var out T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := fn(tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// forUpdate re-reads a parent row with a write lock so concurrent edits of
// the same document are serialised by the database.
func forUpdate(tx *gorm.DB, dest interface{}, id string) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ds.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock %T: %w", dest, err)
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ds.ErrNotFound) {
		return nil
	}
	return err
}

// committed counts a successful write. Call it only after the transaction
// has returned without error.
func committed(op string, err error) {
	if err == nil {
		metrics.Mutations.WithLabelValues(op).Inc()
	}
}
