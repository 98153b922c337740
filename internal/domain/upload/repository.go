package upload

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, photos []*Photo) error
	ListByRow(ctx context.Context, sourceTable string, rowID int64) ([]*Photo, error)
}

type repository struct {
	db    *gorm.DB
	table string
}

// NewRepository stores photo metadata in table (photos when empty).
func NewRepository(db *gorm.DB, table string) Repository {
	if table == "" {
		table = Photo{}.TableName()
	}
	return &repository{db: db, table: table}
}

func (r *repository) CreateBatch(ctx context.Context, photos []*Photo) error {
	if len(photos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Table(r.table).Create(&photos).Error
}

func (r *repository) ListByRow(ctx context.Context, sourceTable string, rowID int64) ([]*Photo, error) {
	var photos []*Photo
	err := r.db.WithContext(ctx).Table(r.table).
		Where("source_table = ? AND wp_row_id = ?", sourceTable, rowID).
		Order("uploaded_at ASC, id ASC").
		Find(&photos).Error
	return photos, err
}

// Migrate creates or updates the metadata table.
func Migrate(db *gorm.DB, table string) error {
	if table == "" {
		table = Photo{}.TableName()
	}
	return db.Table(table).AutoMigrate(&Photo{})
}
