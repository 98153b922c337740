package permit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, p *Permit) error
	GetByID(ctx context.Context, id int64) (*Permit, error)
	List(ctx context.Context, limit, offset int) ([]*Permit, error)
	Table() string
}

type repository struct {
	db    *gorm.DB
	table string
}

// NewRepository stores permits in table (wp_tbl when empty).
func NewRepository(db *gorm.DB, table string) Repository {
	if table == "" {
		table = Permit{}.TableName()
	}
	return &repository{db: db, table: table}
}

func (r *repository) Table() string { return r.table }

// Create inserts one row and fills in the server-assigned id and created_at.
func (r *repository) Create(ctx context.Context, p *Permit) error {
	if p.OperatedLbsPhotos == nil {
		p.OperatedLbsPhotos = []string{}
	}
	if p.EarthingPointsPhotos == nil {
		p.EarthingPointsPhotos = []string{}
	}
	if err := r.db.WithContext(ctx).Table(r.table).Create(p).Error; err != nil {
		return describeDBError(r.table, err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Permit, error) {
	var p Permit
	err := r.db.WithContext(ctx).Table(r.table).Where("id = ?", id).Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermitNotFound
		}
		return nil, describeDBError(r.table, err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*Permit, error) {
	var permits []*Permit
	err := r.db.WithContext(ctx).Table(r.table).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&permits).Error
	if err != nil {
		return nil, describeDBError(r.table, err)
	}
	return permits, nil
}

// describeDBError keeps the server's own message for PostgreSQL errors
// instead of pgx's generic wrapping.
func describeDBError(table string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "42P01":
		return fmt.Errorf("%w: %s", ErrTableMissing, table)
	case "23502", "23505", "23514":
		return fmt.Errorf("%s (constraint %s): %w", pgErr.Message, pgErr.ConstraintName, err)
	}
	return fmt.Errorf("%s: %w", pgErr.Message, err)
}

// Migrate creates or updates the permit table.
func Migrate(db *gorm.DB, table string) error {
	if table == "" {
		table = Permit{}.TableName()
	}
	return db.Table(table).AutoMigrate(&Permit{})
}
