package service

import (
	"context"
	"errors"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
)

type CategoryService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context, companyID uuid.UUID) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, companyID uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat := &model.Category{
		CompanyID: companyID,
		Name:      req.Name,
		Active:    true,
	}
	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: cat.ID.String(), Name: cat.Name}, nil
}

func (s *categoryService) List(ctx context.Context, companyID uuid.UUID) ([]dto.CategoryResponse, error) {
	cats, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = dto.CategoryResponse{ID: c.ID.String(), Name: c.Name}
	}
	return resp, nil
}

func (s *categoryService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, errors.New("catégorie introuvable")
	}
	cat.Name = req.Name
	if err := s.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: cat.ID.String(), Name: cat.Name}, nil
}

func (s *categoryService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.Delete(ctx, companyID, id)
}
