package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	Save(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID) (*Client, error)
	FindByEmail(ctx context.Context, db *gorm.DB, ownerID, emailKey string) (*Client, error)
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]Client, error)
	Delete(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID) (bool, error)
}
