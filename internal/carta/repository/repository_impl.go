package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/sobremesalab/sobremesa/internal/carta/domain"
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

func (r *repository) Create(ctx context.Context, carta *domain.CartaIntencion) error {
	return r.db.WithContext(ctx).Create(carta).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.CartaIntencion, error) {
	var carta domain.CartaIntencion
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&carta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &carta, nil
}

func (r *repository) FindBySobremesaAndUser(ctx context.Context, sobremesaID, userID snowflake.ID) (*domain.CartaIntencion, error) {
	var carta domain.CartaIntencion
	err := r.db.WithContext(ctx).
		Where("sobremesa_id = ? AND user_id = ?", sobremesaID, userID).
		First(&carta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &carta, nil
}

func (r *repository) ListBySobremesa(ctx context.Context, sobremesaID snowflake.ID) ([]*domain.ListItem, error) {
	var items []*domain.ListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT c.id,
		        c.sobremesa_id,
		        c.text,
		        c.status,
		        c.created_at,
		        u.id AS author_id,
		        u.name AS author_name,
		        u.context AS author_ctx,
		        u.bio AS author_bio,
		        u.photo AS author_photo
		 FROM cartas_intencion c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.sobremesa_id = ?
		 ORDER BY c.created_at ASC, c.id ASC`,
		sobremesaID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateStatusIfPending flips a pending letter to its decided state. The
// conditional WHERE makes concurrent decides race-safe: exactly one caller
// sees a row change.
func (r *repository) UpdateStatusIfPending(ctx context.Context, id snowflake.ID, status string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.CartaIntencion{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Update("status", status)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *repository) CountByStatus(ctx context.Context, sobremesaID snowflake.ID) (*domain.StatusCounts, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.CartaIntencion{}).
		Select("status, COUNT(*) AS total").
		Where("sobremesa_id = ?", sobremesaID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &domain.StatusCounts{}
	for _, row := range rows {
		switch row.Status {
		case domain.StatusAccepted:
			counts.Accepted = row.Total
		case domain.StatusPending:
			counts.Pending = row.Total
		}
	}
	return counts, nil
}
