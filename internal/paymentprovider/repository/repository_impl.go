package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/invoicegen/internal/paymentprovider/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, ownerID string) (*domain.Connection, error) {
	var conn domain.Connection
	err := db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, conn *domain.Connection) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"provider", "account_id", "paypal_email", "plan", "updated_at"}),
		}).
		Create(conn).Error
}
