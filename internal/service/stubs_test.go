package service_test

import (
	"context"
	"errors"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository. Its
// ApplyQuantityDeltaTx mimics the conditional UPDATE: zero rows affected
// when the delta would drive the quantity negative.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindByReference(_ context.Context, companyID uuid.UUID, reference string) (*model.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Reference == reference && p.Active {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductRepo) List(_ context.Context, companyID uuid.UUID, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context, companyID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Quantity <= p.StockMin {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, _, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, _, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = true
	}
	return nil
}

func (r *stubProductRepo) CountByCompany(_ context.Context, companyID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Active {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) ApplyQuantityDeltaTx(_ *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	p, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	if p.Quantity+delta < 0 {
		return 0, nil
	}
	p.Quantity += delta
	return 1, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo keeps sales in memory with a per-year sequence counter.
type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
	seq   map[int]int
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		sales: make(map[uuid.UUID]*model.Sale),
		seq:   make(map[int]int),
	}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		s.Items[i].SaleID = s.ID
	}
	for i := range s.Payments {
		s.Payments[i].SaleID = s.ID
		if s.Payments[i].ID == uuid.Nil {
			s.Payments[i].ID = uuid.New()
		}
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.CompanyID != companyID {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSaleRepo) FindByIDAnyCompany(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, companyID uuid.UUID, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CompanyID == companyID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) NextSequenceTx(_ *gorm.DB, _ uuid.UUID, year int) (int, error) {
	r.seq[year]++
	return r.seq[year], nil
}

func (r *stubSaleRepo) SaveTx(_ *gorm.DB, s *model.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	s, ok := r.sales[id]
	if !ok {
		return errors.New("not found")
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) DeleteItemsTx(_ *gorm.DB, saleID uuid.UUID) error {
	if s, ok := r.sales[saleID]; ok {
		s.Items = nil
	}
	return nil
}

func (r *stubSaleRepo) CreateItemsTx(_ *gorm.DB, items []model.SaleItem) error {
	for _, item := range items {
		if s, ok := r.sales[item.SaleID]; ok {
			s.Items = append(s.Items, item)
		}
	}
	return nil
}

func (r *stubSaleRepo) CreatePaymentTx(_ *gorm.DB, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if s, ok := r.sales[p.SaleID]; ok {
		s.Payments = append(s.Payments, *p)
	}
	return nil
}

func (r *stubSaleRepo) DeletePaymentsTx(_ *gorm.DB, saleID uuid.UUID) error {
	if s, ok := r.sales[saleID]; ok {
		s.Payments = nil
	}
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubMovementRepo records movements and the stock audit trail.
type stubMovementRepo struct {
	movements map[uuid.UUID]*model.StockMovement
	entries   []model.StockEntry
}

func newStubMovementRepo() *stubMovementRepo {
	return &stubMovementRepo{movements: make(map[uuid.UUID]*model.StockMovement)}
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	for i := range m.Items {
		m.Items[i].StockMovementID = m.ID
	}
	r.movements[m.ID] = m
	return nil
}

func (r *stubMovementRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.StockMovement, error) {
	m, ok := r.movements[id]
	if !ok || m.CompanyID != companyID {
		return nil, errors.New("not found")
	}
	return m, nil
}

func (r *stubMovementRepo) List(_ context.Context, companyID uuid.UUID, _ dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.CompanyID == companyID {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) SaveTx(_ *gorm.DB, m *model.StockMovement) error {
	r.movements[m.ID] = m
	return nil
}

func (r *stubMovementRepo) DeleteItemsTx(_ *gorm.DB, movementID uuid.UUID) error {
	if m, ok := r.movements[movementID]; ok {
		m.Items = nil
	}
	return nil
}

func (r *stubMovementRepo) CreateItemsTx(_ *gorm.DB, items []model.StockMovementItem) error {
	for _, item := range items {
		if m, ok := r.movements[item.StockMovementID]; ok {
			m.Items = append(m.Items, item)
		}
	}
	return nil
}

func (r *stubMovementRepo) CreateEntryTx(_ *gorm.DB, e *model.StockEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubMovementRepo) ListEntries(_ context.Context, companyID uuid.UUID, filter dto.StockEntryFilter) ([]model.StockEntry, int64, error) {
	var out []model.StockEntry
	for _, e := range r.entries {
		if e.CompanyID != companyID {
			continue
		}
		if filter.Reason != "" && e.Reason != filter.Reason {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) DB() *gorm.DB { return nil }

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubCompanyRepo holds one company and an optional active subscription.
type stubCompanyRepo struct {
	company      *model.Company
	plan         *model.Plan
	subscription *model.Subscription
}

func newStubCompanyRepo(companyID uuid.UUID) *stubCompanyRepo {
	return &stubCompanyRepo{
		company: &model.Company{
			ID:            companyID,
			Name:          "Boutique Test",
			InvoicePrefix: "FAC",
			Active:        true,
		},
	}
}

// withPlan attaches an active subscription on the given plan limits.
func (r *stubCompanyRepo) withPlan(maxUsers, maxProducts int) *stubCompanyRepo {
	r.plan = &model.Plan{
		ID:             uuid.New(),
		Name:           "Standard",
		Price:          decimal.NewFromInt(10000),
		DurationMonths: 1,
		MaxUsers:       maxUsers,
		MaxProducts:    maxProducts,
		Active:         true,
	}
	r.subscription = &model.Subscription{
		ID:        uuid.New(),
		CompanyID: r.company.ID,
		PlanID:    r.plan.ID,
		StartsAt:  time.Now(),
		ExpiresAt: time.Now().AddDate(0, 1, 0),
		Active:    true,
		Plan:      r.plan,
	}
	return r
}

func (r *stubCompanyRepo) Create(_ context.Context, c *model.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.company = c
	return nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Company, error) {
	if r.company == nil || r.company.ID != id {
		return nil, errors.New("not found")
	}
	return r.company, nil
}

func (r *stubCompanyRepo) List(_ context.Context) ([]model.Company, error) {
	if r.company == nil {
		return nil, nil
	}
	return []model.Company{*r.company}, nil
}

func (r *stubCompanyRepo) Update(_ context.Context, c *model.Company) error {
	r.company = c
	return nil
}

func (r *stubCompanyRepo) Deactivate(_ context.Context, _ uuid.UUID) error {
	if r.company != nil {
		r.company.Active = false
	}
	return nil
}

func (r *stubCompanyRepo) CreatePlan(_ context.Context, p *model.Plan) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.plan = p
	return nil
}

func (r *stubCompanyRepo) FindPlanByID(_ context.Context, id uuid.UUID) (*model.Plan, error) {
	if r.plan == nil || r.plan.ID != id {
		return nil, errors.New("not found")
	}
	return r.plan, nil
}

func (r *stubCompanyRepo) ListPlans(_ context.Context) ([]model.Plan, error) {
	if r.plan == nil {
		return nil, nil
	}
	return []model.Plan{*r.plan}, nil
}

func (r *stubCompanyRepo) UpdatePlan(_ context.Context, p *model.Plan) error {
	r.plan = p
	return nil
}

func (r *stubCompanyRepo) CreateSubscription(_ context.Context, s *model.Subscription) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.subscription = s
	return nil
}

func (r *stubCompanyRepo) ActiveSubscription(_ context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	if r.subscription == nil || r.subscription.CompanyID != companyID || !r.subscription.Active {
		return nil, errors.New("no active subscription")
	}
	return r.subscription, nil
}

func (r *stubCompanyRepo) ListSubscriptions(_ context.Context, _ uuid.UUID) ([]model.Subscription, error) {
	if r.subscription == nil {
		return nil, nil
	}
	return []model.Subscription{*r.subscription}, nil
}

func (r *stubCompanyRepo) DeactivateSubscriptions(_ context.Context, _ uuid.UUID) error {
	if r.subscription != nil {
		r.subscription.Active = false
	}
	return nil
}

var _ repository.CompanyRepository = (*stubCompanyRepo)(nil)

// seedProduct registers a product with all three price tiers set.
func seedProduct(repo *stubProductRepo, companyID uuid.UUID, name, reference string, quantity int, price float64) *model.Product {
	p := &model.Product{
		ID:             uuid.New(),
		CompanyID:      companyID,
		Reference:      reference,
		Name:           name,
		Price:          decimal.NewFromFloat(price),
		PriceHalf:      decimal.NewFromFloat(price * 0.9),
		PriceWholesale: decimal.NewFromFloat(price * 0.8),
		Quantity:       quantity,
		StockMin:       5,
		Active:         true,
	}
	repo.products[p.ID] = p
	return p
}
