package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Save(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID) (*Invoice, error)
	FindPublicByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]Invoice, error)
	CountByOwner(ctx context.Context, db *gorm.DB, ownerID string) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID) (bool, error)
}
