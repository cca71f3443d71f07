package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sobremesalab/sobremesa/internal/participacion/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

// Append inserts a ledger entry. A replayed append for the same
// (sobremesa, user) pair is a no-op thanks to the unique index.
func (r *repository) Append(ctx context.Context, p domain.Participacion) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sobremesa_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&p).Error
}

func (r *repository) ListByUser(ctx context.Context, userID snowflake.ID) ([]*domain.MineItem, error) {
	var items []*domain.MineItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT s.id AS sobremesa_id,
		        s.title,
		        s.description,
		        s.slug,
		        s.date_time,
		        s.max_participants,
		        s.status,
		        s.meeting_link,
		        p.role AS my_role,
		        p.created_at AS joined_at,
		        u.id AS convocante_id,
		        u.name AS convocante_name,
		        u.context AS convocante_ctx,
		        u.photo AS convocante_photo
		 FROM participaciones p
		 JOIN sobremesas s ON s.id = p.sobremesa_id
		 JOIN users u ON u.id = s.convocante_id
		 WHERE p.user_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) Exists(ctx context.Context, sobremesaID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Participacion{}).
		Where("sobremesa_id = ? AND user_id = ?", sobremesaID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
