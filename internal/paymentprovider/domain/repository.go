package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, ownerID string) (*Connection, error)
	Upsert(ctx context.Context, db *gorm.DB, conn *Connection) error
}
