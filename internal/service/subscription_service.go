package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SubscriptionService is the superadmin surface: companies, plans and the
// subscriptions binding them. It also answers the per-request subscription
// check used by the middleware.
type SubscriptionService interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error)
	ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error)
	DeactivateCompany(ctx context.Context, id uuid.UUID) error

	CreatePlan(ctx context.Context, req dto.PlanRequest) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context) ([]dto.PlanResponse, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, req dto.PlanRequest) (*dto.PlanResponse, error)

	Subscribe(ctx context.Context, companyID uuid.UUID, req dto.SubscribeRequest) (*dto.SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, companyID uuid.UUID) ([]dto.SubscriptionResponse, error)

	// IsActive reports whether the company currently holds a valid
	// subscription. Satisfies middleware.SubscriptionChecker.
	IsActive(ctx context.Context, companyID uuid.UUID) (bool, error)
}

type subscriptionService struct {
	repo     repository.CompanyRepository
	userRepo repository.UserRepository

	// defaultPrefix numbers the sales of companies created without an
	// explicit invoice prefix.
	defaultPrefix string
}

func NewSubscriptionService(repo repository.CompanyRepository, userRepo repository.UserRepository, defaultPrefix string) SubscriptionService {
	return &subscriptionService{repo: repo, userRepo: userRepo, defaultPrefix: defaultPrefix}
}

func (s *subscriptionService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	company := &model.Company{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Active:  true,
	}
	company.InvoicePrefix = req.InvoicePrefix
	if company.InvoicePrefix == "" {
		company.InvoicePrefix = s.defaultPrefix
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}

	// Seed the tenant's first admin account.
	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), 12)
	if err != nil {
		return nil, err
	}
	admin := &model.User{
		CompanyID:    &company.ID,
		Username:     req.AdminUsername,
		FullName:     req.AdminUsername,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("entreprise créée mais compte admin impossible: %w", err)
	}

	return companyToResponse(company), nil
}

func (s *subscriptionService) GetCompany(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("entreprise introuvable")
	}
	return companyToResponse(company), nil
}

func (s *subscriptionService) ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error) {
	companies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CompanyResponse, len(companies))
	for i := range companies {
		resp[i] = *companyToResponse(&companies[i])
	}
	return resp, nil
}

func (s *subscriptionService) UpdateCompany(ctx context.Context, id uuid.UUID, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("entreprise introuvable")
	}
	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Phone != nil {
		company.Phone = req.Phone
	}
	if req.Email != nil {
		company.Email = req.Email
	}
	if req.Address != nil {
		company.Address = req.Address
	}
	if req.InvoicePrefix != nil {
		company.InvoicePrefix = *req.InvoicePrefix
	}
	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return companyToResponse(company), nil
}

func (s *subscriptionService) DeactivateCompany(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *subscriptionService) CreatePlan(ctx context.Context, req dto.PlanRequest) (*dto.PlanResponse, error) {
	plan := &model.Plan{
		Name:           req.Name,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
		MaxUsers:       req.MaxUsers,
		MaxProducts:    req.MaxProducts,
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return planToResponse(plan), nil
}

func (s *subscriptionService) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PlanResponse, len(plans))
	for i := range plans {
		resp[i] = *planToResponse(&plans[i])
	}
	return resp, nil
}

func (s *subscriptionService) UpdatePlan(ctx context.Context, id uuid.UUID, req dto.PlanRequest) (*dto.PlanResponse, error) {
	plan, err := s.repo.FindPlanByID(ctx, id)
	if err != nil {
		return nil, errors.New("plan introuvable")
	}
	plan.Name = req.Name
	plan.Price = req.Price
	plan.DurationMonths = req.DurationMonths
	plan.MaxUsers = req.MaxUsers
	plan.MaxProducts = req.MaxProducts
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return planToResponse(plan), nil
}

// Subscribe binds a company to a plan. Any previous active subscription is
// closed; the new one runs from now for the plan's duration.
func (s *subscriptionService) Subscribe(ctx context.Context, companyID uuid.UUID, req dto.SubscribeRequest) (*dto.SubscriptionResponse, error) {
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan_id invalide: %w", err)
	}
	plan, err := s.repo.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, errors.New("plan introuvable")
	}
	if _, err := s.repo.FindByID(ctx, companyID); err != nil {
		return nil, errors.New("entreprise introuvable")
	}

	if err := s.repo.DeactivateSubscriptions(ctx, companyID); err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &model.Subscription{
		CompanyID: companyID,
		PlanID:    plan.ID,
		StartsAt:  now,
		ExpiresAt: now.AddDate(0, plan.DurationMonths, 0),
		Active:    true,
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	sub.Plan = plan
	return subscriptionToResponse(sub), nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, companyID uuid.UUID) ([]dto.SubscriptionResponse, error) {
	subs, err := s.repo.ListSubscriptions(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SubscriptionResponse, len(subs))
	for i := range subs {
		resp[i] = *subscriptionToResponse(&subs[i])
	}
	return resp, nil
}

func (s *subscriptionService) IsActive(ctx context.Context, companyID uuid.UUID) (bool, error) {
	_, err := s.repo.ActiveSubscription(ctx, companyID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func companyToResponse(c *model.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		InvoicePrefix: c.InvoicePrefix,
		Active:        c.Active,
	}
}

func planToResponse(p *model.Plan) *dto.PlanResponse {
	return &dto.PlanResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Price:          p.Price,
		DurationMonths: p.DurationMonths,
		MaxUsers:       p.MaxUsers,
		MaxProducts:    p.MaxProducts,
	}
}

func subscriptionToResponse(s *model.Subscription) *dto.SubscriptionResponse {
	resp := &dto.SubscriptionResponse{
		ID:        s.ID.String(),
		CompanyID: s.CompanyID.String(),
		StartsAt:  s.StartsAt.Format(time.RFC3339),
		ExpiresAt: s.ExpiresAt.Format(time.RFC3339),
		Active:    s.Active,
	}
	if s.Plan != nil {
		resp.Plan = *planToResponse(s.Plan)
	}
	return resp
}
