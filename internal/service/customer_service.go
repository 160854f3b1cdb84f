package service

import (
	"context"
	"errors"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, companyID uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		CompanyID: companyID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		Active:    true,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Get(ctx context.Context, companyID, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, errors.New("client introuvable")
	}
	return customerToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, companyID uuid.UUID, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	customers, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CustomerListResponse{
		Data:  make([]dto.CustomerResponse, 0, len(customers)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range customers {
		resp.Data = append(resp.Data, *customerToResponse(&customers[i]))
	}
	return resp, nil
}

func (s *customerService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, errors.New("client introuvable")
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, companyID, id)
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
	}
}
