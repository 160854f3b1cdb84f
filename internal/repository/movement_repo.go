package repository

import (
	"context"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.StockMovement, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
	SaveTx(tx *gorm.DB, m *model.StockMovement) error
	DeleteItemsTx(tx *gorm.DB, movementID uuid.UUID) error
	CreateItemsTx(tx *gorm.DB, items []model.StockMovementItem) error

	// Audit trail
	CreateEntryTx(tx *gorm.DB, e *model.StockEntry) error
	ListEntries(ctx context.Context, companyID uuid.UUID, filter dto.StockEntryFilter) ([]model.StockEntry, int64, error)

	DB() *gorm.DB
}

type movementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &movementRepo{db: db}
}

func (r *movementRepo) DB() *gorm.DB { return r.db }

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.StockMovement, error) {
	var m model.StockMovement
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Items.Product").
		First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movementRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("company_id = ?", companyID).
		Preload("Items.Product")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var movements []model.StockMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&movements).Error
	return movements, total, err
}

func (r *movementRepo) SaveTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Omit("Items").Save(m).Error
}

func (r *movementRepo) DeleteItemsTx(tx *gorm.DB, movementID uuid.UUID) error {
	return tx.Where("stock_movement_id = ?", movementID).Delete(&model.StockMovementItem{}).Error
}

func (r *movementRepo) CreateItemsTx(tx *gorm.DB, items []model.StockMovementItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *movementRepo) CreateEntryTx(tx *gorm.DB, e *model.StockEntry) error {
	return tx.Create(e).Error
}

func (r *movementRepo) ListEntries(ctx context.Context, companyID uuid.UUID, filter dto.StockEntryFilter) ([]model.StockEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockEntry{}).
		Where("company_id = ?", companyID).
		Preload("Product")
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Reason != "" {
		q = q.Where("reason = ?", filter.Reason)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var entries []model.StockEntry
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&entries).Error
	return entries, total, err
}
