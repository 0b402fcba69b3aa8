package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lc3t35/GlobalHaven/internal/geo"
	"github.com/lc3t35/GlobalHaven/pkg/database"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

// PostgresStore implements Store on a gorm connection pool
type PostgresStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPostgresStore wraps an open gorm connection
func NewPostgresStore(db *gorm.DB, log *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log}
}

var _ Store = (*PostgresStore)(nil)

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	return database.Close(s.db)
}

// translate maps gorm errors onto the package sentinels
func translate(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return eris.Wrap(ErrNotFound, msg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return eris.Wrap(ErrDuplicate, msg)
	default:
		return eris.Wrap(err, msg)
	}
}

// nearby adds the bounding box of q as a WHERE on the lat/lng columns
func nearby(tx *gorm.DB, q *geo.Query, latColumn, lngColumn string) *gorm.DB {
	if q == nil {
		return tx
	}
	box := q.BoundingBox()
	tx = tx.Where(latColumn+" BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	switch {
	case box.FullLongitude():
		return tx
	case box.CrossesAntimeridian():
		return tx.Where("("+lngColumn+" >= ? OR "+lngColumn+" <= ?)", box.MinLng, box.MaxLng)
	default:
		return tx.Where(lngColumn+" BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}
}

func eq(tx *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return tx
	}
	return tx.Where(column+" = ?", value)
}

func findActive[T any](ctx context.Context, db *gorm.DB, id, what string) (*T, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var row T
	if err := db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&row).Error; err != nil {
		return nil, translate(err, "failed to get "+what)
	}
	return &row, nil
}

func insert[T any](ctx context.Context, db *gorm.DB, row *T, what string) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err, "failed to create "+what)
	}
	return nil
}

// updateOwned rewrites every column of row except the identity, the owner
// and the columns named in keep, provided ownerColumn still holds ownerID
func updateOwned[T any](ctx context.Context, db *gorm.DB, row *T, ownerColumn, ownerID, what string, activeOnly bool, keep ...string) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	tx := db.WithContext(ctx).Model(row).Where(ownerColumn+" = ?", ownerID)
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	omit := append([]string{"id", ownerColumn, "created_at"}, keep...)
	res := tx.Select("*").Omit(omit...).Updates(row)
	if res.Error != nil {
		return translate(res.Error, "failed to update "+what)
	}
	if res.RowsAffected == 0 {
		return eris.Wrap(ErrNotFound, "failed to update "+what)
	}
	return nil
}

// deactivate soft-deletes the row when ownerColumn holds ownerID
func deactivate[T any](ctx context.Context, db *gorm.DB, id, ownerColumn, ownerID, what string, at time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	res := db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND "+ownerColumn+" = ? AND is_active = ?", id, ownerID, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": at})
	if res.Error != nil {
		return translate(res.Error, "failed to delete "+what)
	}
	if res.RowsAffected == 0 {
		return eris.Wrap(ErrNotFound, "failed to delete "+what)
	}
	return nil
}

func count(ctx context.Context, tx *gorm.DB, what string) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var n int64
	if err := tx.WithContext(ctx).Count(&n).Error; err != nil {
		return 0, translate(err, "failed to count "+what)
	}
	return n, nil
}
