package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSaleSvc(companyID uuid.UUID) (service.SaleService, *stubSaleRepo, *stubProductRepo, *stubMovementRepo) {
	productRepo := newStubProductRepo()
	saleRepo := newStubSaleRepo()
	movementRepo := newStubMovementRepo()
	companyRepo := newStubCompanyRepo(companyID)
	stockSvc := service.NewStockService(productRepo, movementRepo)

	svc := service.NewSaleService(saleRepo, productRepo, companyRepo, stockSvc, nil)
	return svc, saleRepo, productRepo, movementRepo
}

func TestCreateSale_NumerotationSequentielle(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Riz 25kg", "RIZ-25", 100, 15000)

	req := dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		Payments: []dto.SalePaymentRequest{{
			Amount:      decimal.NewFromInt(15000),
			MontantRecu: decimal.NewFromInt(15000),
			Method:      model.PayCash,
		}},
	}

	year := time.Now().Year()
	first, err := svc.Create(context.Background(), companyID, uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FAC-%d-00001", year), first.NumberSale)

	second, err := svc.Create(context.Background(), companyID, uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FAC-%d-00002", year), second.NumberSale)
}

func TestCreateSale_DecrementeStockEtJournalise(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, movementRepo := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Huile 5L", "HUI-5", 10, 4500)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 3}},
		Payments: []dto.SalePaymentRequest{{
			Amount:      decimal.NewFromInt(13500),
			MontantRecu: decimal.NewFromInt(15000),
			Method:      model.PayCash,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SalePaid, resp.Status)
	assert.Equal(t, 7, productRepo.products[p.ID].Quantity)

	// One audit entry, reason VENTE, linked to the sale
	require.Len(t, movementRepo.entries, 1)
	entry := movementRepo.entries[0]
	assert.Equal(t, "VENTE", entry.Reason)
	assert.Equal(t, -3, entry.Delta)
	assert.Equal(t, 10, entry.QuantityBefore)
	assert.Equal(t, 7, entry.QuantityAfter)
	require.NotNil(t, entry.ReferenceID)
	assert.Equal(t, resp.ID, entry.ReferenceID.String())
}

func TestCreateSale_StockInsuffisant(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Sucre 1kg", "SUC-1", 2, 800)

	_, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 5}},
	})
	var stockErr *service.ErrInsufficientStock
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, "Sucre 1kg", stockErr.ProductName)
}

func TestCreateSale_PrixManquantPourLeMode(t *testing.T) {
	companyID := uuid.New()
	svc, saleRepo, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Savon", "SAV-1", 50, 500)
	p.PriceWholesale = decimal.Zero // no GROS tier

	_, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeGros,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	var priceErr *service.ErrMissingPriceForMode
	require.ErrorAs(t, err, &priceErr)
	assert.Equal(t, model.SaleModeGros, priceErr.SaleMode)

	// Preflight failure: nothing persisted, stock untouched
	assert.Empty(t, saleRepo.sales)
	assert.Equal(t, 50, productRepo.products[p.ID].Quantity)
}

func TestCreateSale_CreditSansPaiement(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Lait 1L", "LAI-1", 20, 1200)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SaleConfirmed, resp.Status)
	assert.True(t, resp.TotalPaid.IsZero())
	// Stock still moves on a credit sale
	assert.Equal(t, 18, productRepo.products[p.ID].Quantity)
}

func TestCreateSale_MonnaieRendue(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Thé 250g", "THE-250", 30, 2000)

	// total = 4000; tendered 5000 → change 1000
	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
		Payments: []dto.SalePaymentRequest{{
			Amount:      decimal.NewFromInt(4000),
			MontantRecu: decimal.NewFromInt(5000),
			Method:      model.PayCash,
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "1000", resp.Payments[0].MonnaieRendue.String())
	assert.Equal(t, model.SalePaid, resp.Status)
}

func TestCreateSale_PaiementPartielSansMonnaie(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Café 500g", "CAF-500", 30, 3000)

	// total = 6000; tendered 2000 < remaining → no change, PARTIAL
	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
		Payments: []dto.SalePaymentRequest{{
			Amount:      decimal.NewFromInt(2000),
			MontantRecu: decimal.NewFromInt(2000),
			Method:      model.PayCash,
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Payments, 1)
	assert.True(t, resp.Payments[0].MonnaieRendue.IsZero())
	assert.Equal(t, model.SalePartial, resp.Status)
}

func TestCreateSale_ModeGrosUtiliseLePalier(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Farine 50kg", "FAR-50", 40, 1000)
	p.PriceWholesale = decimal.NewFromInt(700)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeGros,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "7000", resp.Total.String())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "700", resp.Items[0].UnitPrice.String())
}

func TestCancelSale_RestaureLeStock(t *testing.T) {
	companyID := uuid.New()
	svc, saleRepo, productRepo, movementRepo := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Tomate 400g", "TOM-400", 15, 600)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
		Payments: []dto.SalePaymentRequest{{
			Amount:      decimal.NewFromInt(2400),
			MontantRecu: decimal.NewFromInt(2400),
			Method:      model.PayCash,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 11, productRepo.products[p.ID].Quantity)

	saleID := uuid.MustParse(resp.ID)
	require.NoError(t, svc.Cancel(context.Background(), companyID, saleID))

	assert.Equal(t, 15, productRepo.products[p.ID].Quantity)
	stored := saleRepo.sales[saleID]
	assert.Equal(t, model.SaleCancelled, stored.Status)
	assert.Empty(t, stored.Payments)

	// Second audit entry carries the cancellation reason
	require.Len(t, movementRepo.entries, 2)
	assert.Equal(t, "ANNULATION_VENTE", movementRepo.entries[1].Reason)
	assert.Equal(t, 4, movementRepo.entries[1].Delta)
}

func TestCancelSale_DejaAnnulee(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Oignon 1kg", "OIG-1", 15, 500)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	saleID := uuid.MustParse(resp.ID)
	require.NoError(t, svc.Cancel(context.Background(), companyID, saleID))

	err = svc.Cancel(context.Background(), companyID, saleID)
	assert.True(t, errors.Is(err, service.ErrSaleCancelled))
	// Stock restored exactly once
	assert.Equal(t, 15, productRepo.products[p.ID].Quantity)
}

func TestUpdateSale_ReconcilieLesQuantites(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	a := seedProduct(productRepo, companyID, "Produit A", "PA-1", 10, 1000)
	b := seedProduct(productRepo, companyID, "Produit B", "PB-1", 10, 2000)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items: []dto.SaleItemRequest{
			{ProductID: a.ID.String(), Quantity: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, productRepo.products[a.ID].Quantity)

	// Replace A×4 with A×1 + B×2: A gets 3 back, B loses 2
	saleID := uuid.MustParse(resp.ID)
	updated, err := svc.Update(context.Background(), companyID, uuid.New(), saleID, dto.UpdateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items: []dto.SaleItemRequest{
			{ProductID: a.ID.String(), Quantity: 1},
			{ProductID: b.ID.String(), Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, productRepo.products[a.ID].Quantity)
	assert.Equal(t, 8, productRepo.products[b.ID].Quantity)
	assert.Equal(t, "5000", updated.Total.String())
	// Number never changes on edit
	assert.Equal(t, resp.NumberSale, updated.NumberSale)
}

func TestUpdateSale_VenteAnnuleeRefusee(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Produit C", "PC-1", 10, 1000)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	saleID := uuid.MustParse(resp.ID)
	require.NoError(t, svc.Cancel(context.Background(), companyID, saleID))

	_, err = svc.Update(context.Background(), companyID, uuid.New(), saleID, dto.UpdateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
	})
	assert.True(t, errors.Is(err, service.ErrSaleCancelled))
}

func TestGetSale_AutreEntreprise(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo, _ := buildSaleSvc(companyID)
	p := seedProduct(productRepo, companyID, "Produit D", "PD-1", 10, 1000)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateSaleRequest{
		SaleMode:    model.SaleModeDetail,
		PaymentType: model.PayCash,
		Items:       []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	// Another tenant must not see this sale
	_, err = svc.Get(context.Background(), uuid.New(), uuid.MustParse(resp.ID))
	assert.True(t, errors.Is(err, service.ErrSaleNotFound))
}
