package service

import (
	"context"
	"fmt"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"
	"github.com/thiamyoussouph/sasstock-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Audit reasons recorded in stock_entries.
const (
	ReasonSale       = "VENTE"
	ReasonSaleCancel = "ANNULATION_VENTE"
	ReasonSaleEdit   = "MODIFICATION_VENTE"
	ReasonMovement   = "MOUVEMENT"
	ReasonMoveEdit   = "MODIFICATION_MOUVEMENT"
)

type SaleService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Update(ctx context.Context, companyID, userID, saleID uuid.UUID, req dto.UpdateSaleRequest) (*dto.SaleResponse, error)
	Cancel(ctx context.Context, companyID, saleID uuid.UUID) error
	Get(ctx context.Context, companyID, saleID uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	companyRepo repository.CompanyRepository
	stock       StockService
	dispatcher  *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	companyRepo repository.CompanyRepository,
	stock StockService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:        repo,
		productRepo: productRepo,
		companyRepo: companyRepo,
		stock:       stock,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

type resolvedLine struct {
	productID uuid.UUID
	name      string
	unitPrice decimal.Decimal
	quantity  int
	total     decimal.Decimal
}

// resolveLines fetches each product and fixes its unit price for the sale
// mode. Runs outside the transaction: a missing price tier must fail the
// request before any stock is touched.
func (s *saleService) resolveLines(ctx context.Context, companyID uuid.UUID, saleMode string, items []dto.SaleItemRequest) ([]resolvedLine, decimal.Decimal, error) {
	var lines []resolvedLine
	total := decimal.Zero

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("product_id invalide: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, companyID, pid)
		if err != nil {
			return nil, decimal.Zero, ErrProductNotFound
		}
		if !p.Active {
			return nil, decimal.Zero, fmt.Errorf("le produit %q est inactif", p.Name)
		}
		price, ok := p.PriceForMode(saleMode)
		if !ok {
			return nil, decimal.Zero, &ErrMissingPriceForMode{ProductID: pid, SaleMode: saleMode}
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		lines = append(lines, resolvedLine{
			productID: pid,
			name:      p.Name,
			unitPrice: price,
			quantity:  item.Quantity,
			total:     lineTotal,
		})
	}
	return lines, total, nil
}

// buildPayments walks the tendered payments in order, accumulating against
// the sale total: change is only given back once the balance is covered.
// Returns the payment rows, the summed amounts and the resulting status.
func buildPayments(total decimal.Decimal, reqs []dto.SalePaymentRequest) ([]model.Payment, decimal.Decimal, string) {
	var payments []model.Payment
	totalPaid := decimal.Zero

	for _, pr := range reqs {
		remaining := total.Sub(totalPaid)
		change := pr.MontantRecu.Sub(remaining)
		if change.IsNegative() {
			change = decimal.Zero
		}
		payments = append(payments, model.Payment{
			Amount:        pr.Amount,
			MontantRecu:   pr.MontantRecu,
			MonnaieRendue: change,
			Method:        pr.Method,
			Note:          pr.Note,
		})
		totalPaid = totalPaid.Add(pr.Amount)
	}

	return payments, totalPaid, saleStatus(total, totalPaid)
}

// saleStatus derives the status of a non-cancelled sale from its balance.
func saleStatus(total, totalPaid decimal.Decimal) string {
	switch {
	case totalPaid.IsZero():
		return model.SaleConfirmed
	case totalPaid.GreaterThanOrEqual(total):
		return model.SalePaid
	default:
		return model.SalePartial
	}
}

func (s *saleService) Create(ctx context.Context, companyID, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	lines, total, err := s.resolveLines(ctx, companyID, req.SaleMode, req.Items)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("entreprise introuvable: %w", err)
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("customer_id invalide: %w", err)
		}
		customerID = &cid
	}

	payments, totalPaid, status := buildPayments(total, req.Payments)
	year := time.Now().Year()

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		seq, err := s.repo.NextSequenceTx(tx, companyID, year)
		if err != nil {
			return err
		}

		sale = model.Sale{
			CompanyID:   companyID,
			NumberSale:  fmt.Sprintf("%s-%d-%05d", company.InvoicePrefix, year, seq),
			Year:        year,
			Sequence:    seq,
			CustomerID:  customerID,
			UserID:      userID,
			SaleMode:    req.SaleMode,
			PaymentType: req.PaymentType,
			Total:       total,
			Status:      status,
		}
		for _, l := range lines {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: l.productID,
				Quantity:  l.quantity,
				UnitPrice: l.unitPrice,
				Total:     l.total,
			})
		}
		sale.Payments = payments

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		// Decrement stock per line. Any refused decrement aborts the
		// whole sale, items and payments included.
		for _, l := range lines {
			ref := sale.ID
			if err := s.stock.ApplyDeltaTx(tx, companyID, l.productID, -l.quantity, ReasonSale, &ref); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async invoice job, best effort.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueInvoice(ctx, map[string]interface{}{
			"sale_id": sale.ID.String(),
		})
	}

	resp := saleToResponse(&sale)
	for i, l := range lines {
		resp.Items[i].ProductName = l.name
	}
	resp.TotalPaid = totalPaid
	return resp, nil
}

// Update replaces the sale wholesale: every old item's stock effect is
// reversed, then the new items are applied as if the sale were created
// fresh. One transaction; nothing sticks if any step refuses.
func (s *saleService) Update(ctx context.Context, companyID, userID, saleID uuid.UUID, req dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	existing, err := s.repo.FindByID(ctx, companyID, saleID)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	if existing.Status == model.SaleCancelled {
		return nil, ErrSaleCancelled
	}

	lines, total, err := s.resolveLines(ctx, companyID, req.SaleMode, req.Items)
	if err != nil {
		return nil, err
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("customer_id invalide: %w", err)
		}
		customerID = &cid
	}

	payments, totalPaid, status := buildPayments(total, req.Payments)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ref := existing.ID

		// Give back what the old items took.
		for _, item := range existing.Items {
			if err := s.stock.ReverseTx(tx, companyID, item.ProductID, -item.Quantity, ReasonSaleEdit, &ref); err != nil {
				return err
			}
		}
		if err := s.repo.DeleteItemsTx(tx, existing.ID); err != nil {
			return err
		}
		if err := s.repo.DeletePaymentsTx(tx, existing.ID); err != nil {
			return err
		}

		// Take what the new items need.
		newItems := make([]model.SaleItem, 0, len(lines))
		for _, l := range lines {
			if err := s.stock.ApplyDeltaTx(tx, companyID, l.productID, -l.quantity, ReasonSaleEdit, &ref); err != nil {
				return err
			}
			newItems = append(newItems, model.SaleItem{
				SaleID:    existing.ID,
				ProductID: l.productID,
				Quantity:  l.quantity,
				UnitPrice: l.unitPrice,
				Total:     l.total,
			})
		}
		if err := s.repo.CreateItemsTx(tx, newItems); err != nil {
			return err
		}
		for i := range payments {
			payments[i].SaleID = existing.ID
			if err := s.repo.CreatePaymentTx(tx, &payments[i]); err != nil {
				return err
			}
		}

		existing.CustomerID = customerID
		existing.UserID = userID
		existing.SaleMode = req.SaleMode
		existing.PaymentType = req.PaymentType
		existing.Total = total
		existing.Status = status
		return s.repo.SaveTx(tx, existing)
	})
	if txErr != nil {
		return nil, txErr
	}

	existing.Items = nil
	for _, l := range lines {
		existing.Items = append(existing.Items, model.SaleItem{
			ProductID: l.productID,
			Quantity:  l.quantity,
			UnitPrice: l.unitPrice,
			Total:     l.total,
		})
	}
	existing.Payments = payments

	resp := saleToResponse(existing)
	for i, l := range lines {
		resp.Items[i].ProductName = l.name
	}
	resp.TotalPaid = totalPaid
	return resp, nil
}

func (s *saleService) Cancel(ctx context.Context, companyID, saleID uuid.UUID) error {
	sale, err := s.repo.FindByID(ctx, companyID, saleID)
	if err != nil {
		return ErrSaleNotFound
	}
	if sale.Status == model.SaleCancelled {
		return ErrSaleCancelled
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ref := sale.ID
		for _, item := range sale.Items {
			if err := s.stock.ReverseTx(tx, companyID, item.ProductID, -item.Quantity, ReasonSaleCancel, &ref); err != nil {
				return err
			}
		}
		if err := s.repo.DeletePaymentsTx(tx, sale.ID); err != nil {
			return err
		}
		return s.repo.UpdateStatusTx(tx, sale.ID, model.SaleCancelled)
	})
}

func (s *saleService) Get(ctx context.Context, companyID, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, companyID, saleID)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	sales, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleListResponse{
		Data:  make([]dto.SaleResponse, 0, len(sales)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range sales {
		resp.Data = append(resp.Data, *saleToResponse(&sales[i]))
	}
	return resp, nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:          sale.ID.String(),
		NumberSale:  sale.NumberSale,
		SaleMode:    sale.SaleMode,
		PaymentType: sale.PaymentType,
		Total:       sale.Total,
		Status:      sale.Status,
		CreatedAt:   sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.CustomerID != nil {
		id := sale.CustomerID.String()
		resp.CustomerID = &id
	}

	totalPaid := decimal.Zero
	for _, p := range sale.Payments {
		totalPaid = totalPaid.Add(p.Amount)
		resp.Payments = append(resp.Payments, dto.SalePaymentResponse{
			ID:            p.ID.String(),
			Amount:        p.Amount,
			MontantRecu:   p.MontantRecu,
			MonnaieRendue: p.MonnaieRendue,
			Method:        p.Method,
			Note:          p.Note,
			CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		})
	}
	resp.TotalPaid = totalPaid

	for _, item := range sale.Items {
		ir := dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		}
		if item.Product != nil {
			ir.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
