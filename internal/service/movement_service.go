package service

import (
	"context"
	"fmt"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, req dto.CreateMovementRequest) (*dto.MovementResponse, error)
	Update(ctx context.Context, companyID, movementID uuid.UUID, req dto.UpdateMovementRequest) (*dto.MovementResponse, error)
	Get(ctx context.Context, companyID, movementID uuid.UUID) (*dto.MovementResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	ListEntries(ctx context.Context, companyID uuid.UUID, filter dto.StockEntryFilter) (*dto.StockEntryListResponse, error)
}

type movementService struct {
	repo        repository.StockMovementRepository
	productRepo repository.ProductRepository
	stock       StockService
}

func NewMovementService(repo repository.StockMovementRepository, productRepo repository.ProductRepository, stock StockService) MovementService {
	return &movementService{repo: repo, productRepo: productRepo, stock: stock}
}

// movementSign maps a movement type to the direction applied per unit.
// ENTREE, REAPPROVISIONNEMENT and INVENTAIRE add stock; SORTIE and VENTE
// remove it.
func movementSign(movementType string) (int, error) {
	switch movementType {
	case model.MovementEntree, model.MovementReappro, model.MovementInventaire:
		return 1, nil
	case model.MovementSortie, model.MovementVente:
		return -1, nil
	default:
		return 0, fmt.Errorf("type de mouvement inconnu: %s", movementType)
	}
}

func (s *movementService) Create(ctx context.Context, companyID, userID uuid.UUID, req dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	sign, err := movementSign(req.Type)
	if err != nil {
		return nil, err
	}

	type line struct {
		productID uuid.UUID
		name      string
		quantity  int
	}
	var lines []line
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id invalide: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, companyID, pid)
		if err != nil {
			return nil, ErrProductNotFound
		}
		lines = append(lines, line{productID: pid, name: p.Name, quantity: item.Quantity})
	}

	movement := model.StockMovement{
		CompanyID: companyID,
		Type:      req.Type,
		UserID:    userID,
		Note:      req.Note,
	}
	for _, l := range lines {
		movement.Items = append(movement.Items, model.StockMovementItem{
			ProductID: l.productID,
			Quantity:  l.quantity,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &movement); err != nil {
			return err
		}
		// All lines or none: one refused delta rolls the movement back.
		ref := movement.ID
		for _, l := range lines {
			if err := s.stock.ApplyDeltaTx(tx, companyID, l.productID, sign*l.quantity, ReasonMovement, &ref); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := movementToResponse(&movement)
	for i, l := range lines {
		resp.Items[i].ProductName = l.name
	}
	return resp, nil
}

// Update replaces the movement's items and reconciles stock from the
// per-product difference between new and old quantities, so unchanged lines
// cost nothing and a reduced line gives stock back.
func (s *movementService) Update(ctx context.Context, companyID, movementID uuid.UUID, req dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	existing, err := s.repo.FindByID(ctx, companyID, movementID)
	if err != nil {
		return nil, ErrMovementNotFound
	}
	sign, err := movementSign(existing.Type)
	if err != nil {
		return nil, err
	}

	oldQty := make(map[uuid.UUID]int, len(existing.Items))
	for _, item := range existing.Items {
		oldQty[item.ProductID] += item.Quantity
	}

	newQty := make(map[uuid.UUID]int, len(req.Items))
	names := make(map[uuid.UUID]string, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id invalide: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, companyID, pid)
		if err != nil {
			return nil, ErrProductNotFound
		}
		newQty[pid] += item.Quantity
		names[pid] = p.Name
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ref := existing.ID

		// Products removed from the movement lose their whole effect.
		for pid, old := range oldQty {
			if _, kept := newQty[pid]; !kept {
				if err := s.stock.ApplyDeltaTx(tx, companyID, pid, -sign*old, ReasonMoveEdit, &ref); err != nil {
					return err
				}
			}
		}
		// Kept and added products get the difference.
		for pid, q := range newQty {
			diff := q - oldQty[pid]
			if err := s.stock.ApplyDeltaTx(tx, companyID, pid, sign*diff, ReasonMoveEdit, &ref); err != nil {
				return err
			}
		}

		if err := s.repo.DeleteItemsTx(tx, existing.ID); err != nil {
			return err
		}
		items := make([]model.StockMovementItem, 0, len(req.Items))
		for _, item := range req.Items {
			pid, _ := uuid.Parse(item.ProductID)
			items = append(items, model.StockMovementItem{
				StockMovementID: existing.ID,
				ProductID:       pid,
				Quantity:        item.Quantity,
			})
		}
		if err := s.repo.CreateItemsTx(tx, items); err != nil {
			return err
		}

		existing.Note = req.Note
		return s.repo.SaveTx(tx, existing)
	})
	if txErr != nil {
		return nil, txErr
	}

	existing.Items = nil
	for _, item := range req.Items {
		pid, _ := uuid.Parse(item.ProductID)
		existing.Items = append(existing.Items, model.StockMovementItem{
			ProductID: pid,
			Quantity:  item.Quantity,
		})
	}
	resp := movementToResponse(existing)
	for i := range resp.Items {
		pid, _ := uuid.Parse(resp.Items[i].ProductID)
		resp.Items[i].ProductName = names[pid]
	}
	return resp, nil
}

func (s *movementService) Get(ctx context.Context, companyID, movementID uuid.UUID) (*dto.MovementResponse, error) {
	movement, err := s.repo.FindByID(ctx, companyID, movementID)
	if err != nil {
		return nil, ErrMovementNotFound
	}
	return movementToResponse(movement), nil
}

func (s *movementService) List(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	movements, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovementListResponse{
		Data:  make([]dto.MovementResponse, 0, len(movements)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range movements {
		resp.Data = append(resp.Data, *movementToResponse(&movements[i]))
	}
	return resp, nil
}

func (s *movementService) ListEntries(ctx context.Context, companyID uuid.UUID, filter dto.StockEntryFilter) (*dto.StockEntryListResponse, error) {
	entries, total, err := s.repo.ListEntries(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockEntryListResponse{
		Data:  make([]dto.StockEntryResponse, 0, len(entries)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, e := range entries {
		er := dto.StockEntryResponse{
			ID:             e.ID.String(),
			ProductID:      e.ProductID.String(),
			Delta:          e.Delta,
			QuantityBefore: e.QuantityBefore,
			QuantityAfter:  e.QuantityAfter,
			Reason:         e.Reason,
			CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		}
		if e.ReferenceID != nil {
			id := e.ReferenceID.String()
			er.ReferenceID = &id
		}
		resp.Data = append(resp.Data, er)
	}
	return resp, nil
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:        m.ID.String(),
		Type:      m.Type,
		Note:      m.Note,
		UserID:    m.UserID.String(),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range m.Items {
		ir := dto.MovementItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			ir.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
