package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicegen/internal/client/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO clients (id, owner_id, email_key, company, name, email, phone, notes, preferred_payment_method, late_fee_percentage, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID,
		client.OwnerID,
		client.EmailKey,
		client.Company,
		client.Name,
		client.Email,
		client.Phone,
		client.Notes,
		client.PreferredPaymentMethod,
		client.LateFeePercentage,
		client.CreatedAt,
		client.UpdatedAt,
	).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Exec(
		`UPDATE clients
		 SET email_key = ?, company = ?, name = ?, email = ?, phone = ?, notes = ?,
		     preferred_payment_method = ?, late_fee_percentage = ?, updated_at = ?
		 WHERE owner_id = ? AND id = ?`,
		client.EmailKey,
		client.Company,
		client.Name,
		client.Email,
		client.Phone,
		client.Notes,
		client.PreferredPaymentMethod,
		client.LateFeePercentage,
		client.UpdatedAt,
		client.OwnerID,
		client.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, email_key, company, name, email, phone, notes, preferred_payment_method, late_fee_percentage, created_at, updated_at
		 FROM clients WHERE owner_id = ? AND id = ?`,
		ownerID,
		id,
	).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, ownerID, emailKey string) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, email_key, company, name, email, phone, notes, preferred_payment_method, late_fee_percentage, created_at, updated_at
		 FROM clients WHERE owner_id = ? AND email_key = ?`,
		ownerID,
		emailKey,
	).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

func (r *repo) ListByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Client, error) {
	var clients []domain.Client
	err := db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("owner_id = ?", ownerID).
		Order("created_at desc, id desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM clients WHERE owner_id = ? AND id = ?`, ownerID, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
