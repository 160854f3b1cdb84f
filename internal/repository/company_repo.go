package repository

import (
	"context"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
	Update(ctx context.Context, c *model.Company) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	CreatePlan(ctx context.Context, p *model.Plan) error
	FindPlanByID(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	ListPlans(ctx context.Context) ([]model.Plan, error)
	UpdatePlan(ctx context.Context, p *model.Plan) error

	CreateSubscription(ctx context.Context, s *model.Subscription) error
	ActiveSubscription(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error)
	ListSubscriptions(ctx context.Context, companyID uuid.UUID) ([]model.Subscription, error)
	DeactivateSubscriptions(ctx context.Context, companyID uuid.UUID) error
}

type companyRepo struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) CompanyRepository { return &companyRepo{db: db} }

func (r *companyRepo) Create(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *companyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var c model.Company
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *companyRepo) List(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).Order("name ASC").Find(&companies).Error
	return companies, err
}

func (r *companyRepo) Update(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *companyRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Company{}).Where("id = ?", id).Update("active", false).Error
}

func (r *companyRepo) CreatePlan(ctx context.Context, p *model.Plan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *companyRepo) FindPlanByID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var p model.Plan
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *companyRepo) ListPlans(ctx context.Context) ([]model.Plan, error) {
	var plans []model.Plan
	err := r.db.WithContext(ctx).Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *companyRepo) UpdatePlan(ctx context.Context, p *model.Plan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *companyRepo) CreateSubscription(ctx context.Context, s *model.Subscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *companyRepo) ActiveSubscription(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	var s model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("company_id = ? AND active = true AND expires_at > ?", companyID, time.Now()).
		Order("expires_at DESC").
		First(&s).Error
	return &s, err
}

func (r *companyRepo) ListSubscriptions(ctx context.Context, companyID uuid.UUID) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("company_id = ?", companyID).
		Order("starts_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *companyRepo) DeactivateSubscriptions(ctx context.Context, companyID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("company_id = ? AND active = true", companyID).
		Update("active", false).Error
}
