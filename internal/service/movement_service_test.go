package service_test

import (
	"context"
	"testing"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMovementSvc() (service.MovementService, *stubMovementRepo, *stubProductRepo) {
	productRepo := newStubProductRepo()
	movementRepo := newStubMovementRepo()
	stockSvc := service.NewStockService(productRepo, movementRepo)
	svc := service.NewMovementService(movementRepo, productRepo, stockSvc)
	return svc, movementRepo, productRepo
}

func TestCreateMovement_EntreeAjouteDuStock(t *testing.T) {
	companyID := uuid.New()
	svc, movementRepo, productRepo := buildMovementSvc()
	p := seedProduct(productRepo, companyID, "Bidon 20L", "BID-20", 5, 3000)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateMovementRequest{
		Type:  model.MovementEntree,
		Items: []dto.MovementItemRequest{{ProductID: p.ID.String(), Quantity: 12}},
	})
	require.NoError(t, err)
	assert.Equal(t, 17, productRepo.products[p.ID].Quantity)

	require.Len(t, movementRepo.entries, 1)
	entry := movementRepo.entries[0]
	assert.Equal(t, "MOUVEMENT", entry.Reason)
	assert.Equal(t, 12, entry.Delta)
	require.NotNil(t, entry.ReferenceID)
	assert.Equal(t, resp.ID, entry.ReferenceID.String())
}

func TestCreateMovement_SortieRetireDuStock(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo := buildMovementSvc()
	p := seedProduct(productRepo, companyID, "Carton d'eau", "EAU-6", 10, 2500)

	_, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateMovementRequest{
		Type:  model.MovementSortie,
		Items: []dto.MovementItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, productRepo.products[p.ID].Quantity)
}

func TestCreateMovement_SortieStockInsuffisant(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo := buildMovementSvc()
	p := seedProduct(productRepo, companyID, "Gaz 6kg", "GAZ-6", 3, 7000)

	_, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateMovementRequest{
		Type:  model.MovementSortie,
		Items: []dto.MovementItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	var stockErr *service.ErrInsufficientStock
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
}

func TestCreateMovement_TypeInconnu(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo := buildMovementSvc()
	p := seedProduct(productRepo, companyID, "Sac 10kg", "SAC-10", 3, 1500)

	_, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateMovementRequest{
		Type:  "TRANSFERT",
		Items: []dto.MovementItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	assert.ErrorContains(t, err, "type de mouvement inconnu")
}

func TestUpdateMovement_ReconcilieParDifference(t *testing.T) {
	companyID := uuid.New()
	svc, movementRepo, productRepo := buildMovementSvc()
	a := seedProduct(productRepo, companyID, "Produit A", "MA-1", 0, 1000)
	b := seedProduct(productRepo, companyID, "Produit B", "MB-1", 0, 1000)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateMovementRequest{
		Type: model.MovementEntree,
		Items: []dto.MovementItemRequest{
			{ProductID: a.ID.String(), Quantity: 10},
			{ProductID: b.ID.String(), Quantity: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, productRepo.products[a.ID].Quantity)
	assert.Equal(t, 5, productRepo.products[b.ID].Quantity)

	// A drops 10→6 (diff -4), B is removed entirely (-5)
	movementID := uuid.MustParse(resp.ID)
	_, err = svc.Update(context.Background(), companyID, movementID, dto.UpdateMovementRequest{
		Items: []dto.MovementItemRequest{
			{ProductID: a.ID.String(), Quantity: 6},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, productRepo.products[a.ID].Quantity)
	assert.Equal(t, 0, productRepo.products[b.ID].Quantity)

	// Reconciliation entries carry the edit reason
	var editEntries []model.StockEntry
	for _, e := range movementRepo.entries {
		if e.Reason == "MODIFICATION_MOUVEMENT" {
			editEntries = append(editEntries, e)
		}
	}
	assert.Len(t, editEntries, 2)
}

func TestUpdateMovement_LigneInchangeeSansEffet(t *testing.T) {
	companyID := uuid.New()
	svc, movementRepo, productRepo := buildMovementSvc()
	p := seedProduct(productRepo, companyID, "Produit C", "MC-1", 0, 1000)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateMovementRequest{
		Type:  model.MovementEntree,
		Items: []dto.MovementItemRequest{{ProductID: p.ID.String(), Quantity: 8}},
	})
	require.NoError(t, err)
	created := len(movementRepo.entries)

	// Same quantity back: diff is zero, no stock change, no audit entry
	note := "correction de note"
	_, err = svc.Update(context.Background(), companyID, uuid.MustParse(resp.ID), dto.UpdateMovementRequest{
		Note:  &note,
		Items: []dto.MovementItemRequest{{ProductID: p.ID.String(), Quantity: 8}},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, productRepo.products[p.ID].Quantity)
	assert.Len(t, movementRepo.entries, created)
}

func TestUpdateMovement_RefusSiStockDeviendraitNegatif(t *testing.T) {
	companyID := uuid.New()
	svc, _, productRepo := buildMovementSvc()
	p := seedProduct(productRepo, companyID, "Produit D", "MD-1", 0, 1000)

	resp, err := svc.Create(context.Background(), companyID, uuid.New(), dto.CreateMovementRequest{
		Type:  model.MovementEntree,
		Items: []dto.MovementItemRequest{{ProductID: p.ID.String(), Quantity: 5}},
	})
	require.NoError(t, err)

	// The 5 received units were sold elsewhere in the meantime
	productRepo.products[p.ID].Quantity = 2

	// Reducing the entry 5→0 would need taking 5 back with only 2 on hand
	_, err = svc.Update(context.Background(), companyID, uuid.MustParse(resp.ID), dto.UpdateMovementRequest{
		Items: []dto.MovementItemRequest{{ProductID: p.ID.String(), Quantity: 0}},
	})
	var stockErr *service.ErrInsufficientStock
	require.ErrorAs(t, err, &stockErr)
}
