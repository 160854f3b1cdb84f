//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/config"
	"github.com/thiamyoussouph/sasstock-sub000/internal/infra"
	"github.com/thiamyoussouph/sasstock-sub000/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	resp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server     *httptest.Server
	superToken string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("sasstock_test"),
		tcPostgres.WithUsername("sasstock"),
		tcPostgres.WithPassword("sasstock"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		InvoicePrefix:      "FAC",
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.Migrate(db))

	// Seed the superadmin account
	hash, err := bcrypt.GenerateFromPassword([]byte("superpass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
		INSERT INTO users (id, username, full_name, password_hash, role, active, created_at, updated_at)
		VALUES (gen_random_uuid(), 'super@e2e.test', 'Super E2E', ?, 'superadmin', true, NOW(), NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, cb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:     srv,
		superToken: login(t, srv, "super@e2e.test", "superpass"),
	}
}

// provisionTenantWithAdmin creates a company with the given admin account
// and, optionally, an active subscription on a fresh plan.
func provisionTenantWithAdmin(t *testing.T, env *testEnv, adminUsername string, subscribe bool) string {
	t.Helper()

	compResp := do(t, env.server, "POST", "/v1/companies",
		jsonBody(t, map[string]any{
			"name":           "Boutique E2E",
			"invoice_prefix": "FAC",
			"admin_username": adminUsername,
			"admin_password": "motdepasse",
		}), env.superToken)
	require.Equal(t, http.StatusCreated, compResp.StatusCode)
	var comp struct {
		ID string `json:"id"`
	}
	decodeJSON(t, compResp, &comp)

	if subscribe {
		planResp := do(t, env.server, "POST", "/v1/plans",
			jsonBody(t, map[string]any{
				"name":            fmt.Sprintf("Plan-%d", time.Now().UnixNano()),
				"price":           "15000",
				"duration_months": 1,
				"max_users":       10,
				"max_products":    100,
			}), env.superToken)
		require.Equal(t, http.StatusCreated, planResp.StatusCode)
		var plan struct {
			ID string `json:"id"`
		}
		decodeJSON(t, planResp, &plan)

		subResp := do(t, env.server, "POST", "/v1/companies/"+comp.ID+"/subscriptions",
			jsonBody(t, map[string]any{"plan_id": plan.ID}), env.superToken)
		require.Equal(t, http.StatusCreated, subResp.StatusCode)
		subResp.Body.Close()
	}

	return comp.ID
}

func createProduct(t *testing.T, env *testEnv, token, reference string, price string, quantity int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"reference": reference,
			"name":      "Produit " + reference,
			"price":     price,
			"quantity":  quantity,
		}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &p)
	return p.ID
}

func getProductQuantity(t *testing.T, env *testEnv, token, productID string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/products/"+productID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, resp, &p)
	return p.Quantity
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_ProvisioningEtCycleDeVente(t *testing.T) {
	env := setupTestEnv(t)
	provisionTenantWithAdmin(t, env, "admin1@e2e.test", true)
	token := login(t, env.server, "admin1@e2e.test", "motdepasse")

	productID := createProduct(t, env, token, "E2E-001", "250", 20)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"sale_mode":    "DETAIL",
			"payment_type": "CASH",
			"items": []map[string]any{
				{"product_id": productID, "quantity": 3},
			},
			"payments": []map[string]any{
				{"amount": "750", "montant_recu": "1000", "method": "CASH"},
			},
		}), token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID         string `json:"id"`
		NumberSale string `json:"number_sale"`
		Status     string `json:"status"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, fmt.Sprintf("FAC-%d-00001", time.Now().Year()), sale.NumberSale)
	assert.Equal(t, "PAID", sale.Status)

	// Stock decremented
	assert.Equal(t, 17, getProductQuantity(t, env, token, productID))

	// Sale appears in the list
	listResp := do(t, env.server, "GET", "/v1/sales?date="+time.Now().Format("2006-01-02"), nil, token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	listResp.Body.Close()
}

func TestE2E_VenteSansAbonnement(t *testing.T) {
	env := setupTestEnv(t)
	provisionTenantWithAdmin(t, env, "admin2@e2e.test", false)
	token := login(t, env.server, "admin2@e2e.test", "motdepasse")

	// Reads still work without a subscription
	listResp := do(t, env.server, "GET", "/v1/sales", nil, token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	listResp.Body.Close()

	// Writes are rejected with 402
	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"sale_mode":    "DETAIL",
			"payment_type": "CASH",
			"items":        []map[string]any{{"product_id": "00000000-0000-0000-0000-000000000000", "quantity": 1}},
		}), token)
	assert.Equal(t, http.StatusPaymentRequired, saleResp.StatusCode)
	saleResp.Body.Close()
}

func TestE2E_StockInsuffisantRefuseLaVente(t *testing.T) {
	env := setupTestEnv(t)
	provisionTenantWithAdmin(t, env, "admin3@e2e.test", true)
	token := login(t, env.server, "admin3@e2e.test", "motdepasse")

	productID := createProduct(t, env, token, "E2E-002", "500", 2)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"sale_mode":    "DETAIL",
			"payment_type": "CASH",
			"items":        []map[string]any{{"product_id": productID, "quantity": 5}},
		}), token)
	assert.Equal(t, http.StatusConflict, saleResp.StatusCode)
	saleResp.Body.Close()

	// Nothing moved
	assert.Equal(t, 2, getProductQuantity(t, env, token, productID))
}

// A refused line must roll back the lines already applied in the same
// transaction, for sales and for manual movements alike.
func TestE2E_LigneRefuseeAnnuleTouteLOperation(t *testing.T) {
	env := setupTestEnv(t)
	provisionTenantWithAdmin(t, env, "admin6@e2e.test", true)
	token := login(t, env.server, "admin6@e2e.test", "motdepasse")

	// First line has plenty of stock, second does not.
	okID := createProduct(t, env, token, "E2E-006", "500", 50)
	shortID := createProduct(t, env, token, "E2E-007", "500", 2)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"sale_mode":    "DETAIL",
			"payment_type": "CASH",
			"items": []map[string]any{
				{"product_id": okID, "quantity": 10},
				{"product_id": shortID, "quantity": 5},
			},
		}), token)
	assert.Equal(t, http.StatusConflict, saleResp.StatusCode)
	saleResp.Body.Close()

	// The first line's decrement was reverted with the transaction.
	assert.Equal(t, 50, getProductQuantity(t, env, token, okID))
	assert.Equal(t, 2, getProductQuantity(t, env, token, shortID))

	mvResp := do(t, env.server, "POST", "/v1/stock/movements",
		jsonBody(t, map[string]any{
			"type": "SORTIE",
			"items": []map[string]any{
				{"product_id": okID, "quantity": 10},
				{"product_id": shortID, "quantity": 5},
			},
		}), token)
	assert.Equal(t, http.StatusConflict, mvResp.StatusCode)
	mvResp.Body.Close()

	assert.Equal(t, 50, getProductQuantity(t, env, token, okID))
	assert.Equal(t, 2, getProductQuantity(t, env, token, shortID))
}

func TestE2E_AnnulationRestaureLeStock(t *testing.T) {
	env := setupTestEnv(t)
	provisionTenantWithAdmin(t, env, "admin4@e2e.test", true)
	token := login(t, env.server, "admin4@e2e.test", "motdepasse")

	productID := createProduct(t, env, token, "E2E-003", "100", 10)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"sale_mode":    "DETAIL",
			"payment_type": "CASH",
			"items":        []map[string]any{{"product_id": productID, "quantity": 4}},
		}), token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, 6, getProductQuantity(t, env, token, productID))

	cancelResp := do(t, env.server, "DELETE", "/v1/sales/"+sale.ID, nil, token)
	require.Equal(t, http.StatusNoContent, cancelResp.StatusCode)
	cancelResp.Body.Close()
	assert.Equal(t, 10, getProductQuantity(t, env, token, productID))

	// Cancelling twice is refused
	again := do(t, env.server, "DELETE", "/v1/sales/"+sale.ID, nil, token)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
	again.Body.Close()
}

func TestE2E_PaiementEchelonne(t *testing.T) {
	env := setupTestEnv(t)
	provisionTenantWithAdmin(t, env, "admin5@e2e.test", true)
	token := login(t, env.server, "admin5@e2e.test", "motdepasse")

	productID := createProduct(t, env, token, "E2E-004", "1000", 10)

	// Credit sale: no payment at checkout
	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"sale_mode":    "DETAIL",
			"payment_type": "CASH",
			"items":        []map[string]any{{"product_id": productID, "quantity": 2}},
		}), token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "CONFIRMED", sale.Status)

	// First instalment
	payResp := do(t, env.server, "POST", "/v1/sales/"+sale.ID+"/payments",
		jsonBody(t, map[string]any{"amount": "800", "montant_recu": "800", "method": "MOBILE_MONEY"}), token)
	require.Equal(t, http.StatusCreated, payResp.StatusCode)
	payResp.Body.Close()

	balResp := do(t, env.server, "GET", "/v1/sales/"+sale.ID+"/balance", nil, token)
	require.Equal(t, http.StatusOK, balResp.StatusCode)
	var bal struct {
		AmountRemaining string `json:"amount_remaining"`
		Status          string `json:"status"`
	}
	decodeJSON(t, balResp, &bal)
	assert.Equal(t, "1200", bal.AmountRemaining)
	assert.Equal(t, "PARTIAL", bal.Status)

	// Settle the rest
	payResp = do(t, env.server, "POST", "/v1/sales/"+sale.ID+"/payments",
		jsonBody(t, map[string]any{"amount": "1200", "montant_recu": "1500", "method": "CASH"}), token)
	require.Equal(t, http.StatusCreated, payResp.StatusCode)
	payResp.Body.Close()

	balResp = do(t, env.server, "GET", "/v1/sales/"+sale.ID+"/balance", nil, token)
	require.Equal(t, http.StatusOK, balResp.StatusCode)
	decodeJSON(t, balResp, &bal)
	assert.Equal(t, "0", bal.AmountRemaining)
	assert.Equal(t, "PAID", bal.Status)

	// One more payment is refused
	extra := do(t, env.server, "POST", "/v1/sales/"+sale.ID+"/payments",
		jsonBody(t, map[string]any{"amount": "100", "montant_recu": "100", "method": "CASH"}), token)
	assert.Equal(t, http.StatusConflict, extra.StatusCode)
	extra.Body.Close()
}
