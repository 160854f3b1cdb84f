package service

import (
	"context"
	"errors"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.SupplierFilter) (*dto.SupplierListResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, companyID uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		CompanyID:   companyID,
		Name:        req.Name,
		ContactName: req.Contact,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Active:      true,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) Get(ctx context.Context, companyID, id uuid.UUID) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, errors.New("fournisseur introuvable")
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context, companyID uuid.UUID, filter dto.SupplierFilter) (*dto.SupplierListResponse, error) {
	suppliers, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.SupplierListResponse{
		Data:  make([]dto.SupplierResponse, 0, len(suppliers)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range suppliers {
		resp.Data = append(resp.Data, *supplierToResponse(&suppliers[i]))
	}
	return resp, nil
}

func (s *supplierService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, errors.New("fournisseur introuvable")
	}
	supplier.Name = req.Name
	supplier.ContactName = req.Contact
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, companyID, id)
}

func supplierToResponse(sp *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      sp.ID.String(),
		Name:    sp.Name,
		Contact: sp.ContactName,
		Phone:   sp.Phone,
		Email:   sp.Email,
		Address: sp.Address,
	}
}
