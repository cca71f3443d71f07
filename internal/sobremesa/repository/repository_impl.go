package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, s *domain.Sobremesa) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Sobremesa, error) {
	var s domain.Sobremesa
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Sobremesa{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) ListProposed(ctx context.Context, before *time.Time, beforeID snowflake.ID, limit int) ([]*domain.CarteleraItem, error) {
	query := r.db.WithContext(ctx).
		Table("sobremesas s").
		Select(`s.id,
		        s.title,
		        s.description,
		        s.slug,
		        s.date_time,
		        s.max_participants,
		        s.status,
		        s.created_at,
		        u.id AS convocante_id,
		        u.name AS convocante_name,
		        u.context AS convocante_ctx,
		        u.bio AS convocante_bio,
		        u.photo AS convocante_photo`).
		Joins("JOIN users u ON u.id = s.convocante_id").
		Where("s.status = ?", domain.StatusProposed).
		Order("s.created_at DESC, s.id DESC")

	if before != nil {
		query = query.Where("(s.created_at, s.id) < (?, ?)", *before, beforeID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []*domain.CarteleraItem
	if err := query.Scan(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}
