package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const priceCacheTTL = 60 * time.Second

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	ListLowStock(ctx context.Context, companyID uuid.UUID) ([]dto.ProductResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
	Reactivate(ctx context.Context, companyID, id uuid.UUID) error
	// CheckPrice serves the public price display by product reference,
	// cached in Redis for 60s.
	CheckPrice(ctx context.Context, companyID uuid.UUID, reference string) (*dto.PriceCheckResponse, error)
}

type productService struct {
	repo        repository.ProductRepository
	companyRepo repository.CompanyRepository
	rdb         *redis.Client
}

func NewProductService(repo repository.ProductRepository, companyRepo repository.CompanyRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, companyRepo: companyRepo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := s.checkProductQuota(ctx, companyID); err != nil {
		return nil, err
	}

	p := &model.Product{
		CompanyID:      companyID,
		Reference:      req.Reference,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		PriceHalf:      req.PriceHalf,
		PriceWholesale: req.PriceWholesale,
		PurchasePrice:  req.PurchasePrice,
		Quantity:       req.Quantity,
		StockMin:       req.StockMin,
		Active:         true,
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("category_id invalide: %w", err)
		}
		p.CategoryID = &cid
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("supplier_id invalide: %w", err)
		}
		p.SupplierID = &sid
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

// checkProductQuota enforces the plan's product ceiling for the tenant.
func (s *productService) checkProductQuota(ctx context.Context, companyID uuid.UUID) error {
	sub, err := s.companyRepo.ActiveSubscription(ctx, companyID)
	if err != nil {
		// No active subscription: the middleware rejects writes before
		// this point, so do not double-police here.
		return nil
	}
	count, err := s.repo.CountByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if sub.Plan != nil && count >= int64(sub.Plan.MaxProducts) {
		return fmt.Errorf("limite de produits atteinte pour votre abonnement (%d)", sub.Plan.MaxProducts)
	}
	return nil
}

func (s *productService) Get(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, *productToResponse(&products[i]))
	}
	return resp, nil
}

func (s *productService) ListLowStock(ctx context.Context, companyID uuid.UUID) ([]dto.ProductResponse, error) {
	products, err := s.repo.ListLowStock(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *productService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("category_id invalide: %w", err)
		}
		p.CategoryID = &cid
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("supplier_id invalide: %w", err)
		}
		p.SupplierID = &sid
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.PriceHalf != nil {
		p.PriceHalf = *req.PriceHalf
	}
	if req.PriceWholesale != nil {
		p.PriceWholesale = *req.PriceWholesale
	}
	if req.PurchasePrice != nil {
		p.PurchasePrice = *req.PurchasePrice
	}
	if req.StockMin != nil {
		p.StockMin = *req.StockMin
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePriceCache(ctx, companyID, p.Reference)
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.repo.SoftDelete(ctx, companyID, id); err != nil {
		return err
	}
	s.invalidatePriceCache(ctx, companyID, p.Reference)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, companyID, id)
}

func (s *productService) CheckPrice(ctx context.Context, companyID uuid.UUID, reference string) (*dto.PriceCheckResponse, error) {
	key := priceCacheKey(companyID, reference)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.PriceCheckResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("lecture du cache prix impossible")
		}
	}

	p, err := s.repo.FindByReference(ctx, companyID, reference)
	if err != nil {
		return nil, ErrProductNotFound
	}
	resp := &dto.PriceCheckResponse{
		Reference:      p.Reference,
		Name:           p.Name,
		Price:          p.Price,
		PriceHalf:      p.PriceHalf,
		PriceWholesale: p.PriceWholesale,
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			s.rdb.Set(ctx, key, payload, priceCacheTTL)
		}
	}
	return resp, nil
}

func (s *productService) invalidatePriceCache(ctx context.Context, companyID uuid.UUID, reference string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, priceCacheKey(companyID, reference))
}

func priceCacheKey(companyID uuid.UUID, reference string) string {
	return fmt.Sprintf("price:%s:%s", companyID, reference)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:             p.ID.String(),
		Reference:      p.Reference,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		PriceHalf:      p.PriceHalf,
		PriceWholesale: p.PriceWholesale,
		PurchasePrice:  p.PurchasePrice,
		Quantity:       p.Quantity,
		StockMin:       p.StockMin,
		Active:         p.Active,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		resp.CategoryID = &id
	}
	if p.SupplierID != nil {
		id := p.SupplierID.String()
		resp.SupplierID = &id
	}
	return resp
}
