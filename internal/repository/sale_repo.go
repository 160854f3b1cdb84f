package repository

import (
	"context"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Sale, error)
	// FindByIDAnyCompany skips tenant scoping. Background workers only —
	// HTTP paths must go through FindByID.
	FindByIDAnyCompany(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// NextSequenceTx reserves the next per-company, per-year sequence number.
	// Must run inside the sale-creation transaction so two concurrent sales
	// cannot take the same number.
	NextSequenceTx(tx *gorm.DB, companyID uuid.UUID, year int) (int, error)

	SaveTx(tx *gorm.DB, s *model.Sale) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	DeleteItemsTx(tx *gorm.DB, saleID uuid.UUID) error
	CreateItemsTx(tx *gorm.DB, items []model.SaleItem) error

	// Payments
	CreatePaymentTx(tx *gorm.DB, p *model.Payment) error
	DeletePaymentsTx(tx *gorm.DB, saleID uuid.UUID) error

	// DB exposes the DB for transaction creation in the service layer.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Items.Product").Preload("Payments").Preload("Customer").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIDAnyCompany(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("Payments").Preload("Customer").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("company_id = ?", companyID)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Product").Preload("Payments").Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) NextSequenceTx(tx *gorm.DB, companyID uuid.UUID, year int) (int, error) {
	// MAX+1 under the row locks taken by the surrounding transaction. A lost
	// update here only surfaces as a unique-index violation on the display
	// number, which aborts and retries at the client.
	var seq int
	err := tx.Model(&model.Sale{}).
		Where("company_id = ? AND year = ?", companyID, year).
		Select("COALESCE(MAX(sequence), 0) + 1").
		Scan(&seq).Error
	return seq, err
}

func (r *saleRepo) SaveTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit("Items", "Payments").Save(s).Error
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error
}

func (r *saleRepo) DeleteItemsTx(tx *gorm.DB, saleID uuid.UUID) error {
	return tx.Where("sale_id = ?", saleID).Delete(&model.SaleItem{}).Error
}

func (r *saleRepo) CreateItemsTx(tx *gorm.DB, items []model.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *saleRepo) CreatePaymentTx(tx *gorm.DB, p *model.Payment) error {
	return tx.Create(p).Error
}

func (r *saleRepo) DeletePaymentsTx(tx *gorm.DB, saleID uuid.UUID) error {
	return tx.Where("sale_id = ?", saleID).Delete(&model.Payment{}).Error
}
