package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stockroom-io/stockroom/internal/auth"
	api "github.com/stockroom-io/stockroom/internal/http"
	handler "github.com/stockroom-io/stockroom/internal/http/handlers"
	rl "github.com/stockroom-io/stockroom/internal/http/rate_limiter"
	"github.com/stockroom-io/stockroom/internal/ledger"
	"github.com/stockroom-io/stockroom/internal/models"
	"github.com/stockroom-io/stockroom/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

var (
	token         string
	productRepo   *repo.InMemoryProductRepository
	warehouseRepo *repo.InMemoryWarehouseRepository
	movementRepo  *repo.InMemoryMovementRepository
	userRepo      *repo.InMemoryUserRepository
)

func init() {
	// Generous limits so the suite itself never trips the login limiter.
	rl.Configure(100, 100)
}

// newTestServer wires fresh in-memory repos plus an in-memory ledger behind
// the real router and logs in as admin.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	warehouseRepo = repo.NewInMemoryWarehouseRepository()
	handler.SetWarehouseRepo(warehouseRepo)

	movementRepo = repo.NewInMemoryMovementRepository()
	handler.SetMovementRepo(movementRepo)

	userRepo = repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(productRepo, warehouseRepo, movementRepo)
	handler.SetMetricsRepo(metricsRepo)

	handler.SetLedger(ledger.NewInMemoryLedger(movementRepo, warehouseRepo))
	handler.SetRefreshTokenStore(auth.NewInMemoryRefreshStore(), 0)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	if _, err := userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
	}); err != nil {
		t.Fatalf("error creating admin user: %v", err)
	}

	r := api.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		t.Fatalf("error generating token: %v", err)
	}
	return r
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func doJSON(r http.Handler, method, url string, payload any, authenticated bool) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, url, &body)
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doJSONAs is doJSON with an explicit bearer token instead of the suite's
// admin token.
func doJSONAs(r http.Handler, method, url string, payload any, bearer string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Authorization", "Bearer "+bearer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/products", p, true)
}

func createWarehouse(r http.Handler, wh handler.WarehouseRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/warehouses", wh, true)
}

func stockIn(r http.Handler, productID int, req handler.StockRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/products/%d/stock-in", productID), req, true)
}

func stockOut(r http.Handler, productID int, req handler.StockRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/products/%d/stock-out", productID), req, true)
}

func transfer(r http.Handler, productID int, req handler.TransferRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/products/%d/transfer", productID), req, true)
}

func mustCreateProduct(t *testing.T, r http.Handler, p handler.ProductRequest) models.Product {
	t.Helper()
	w := createProduct(r, p)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created for product, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Product
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("error decoding product: %v", err)
	}
	return created
}

func mustCreateWarehouse(t *testing.T, r http.Handler, wh handler.WarehouseRequest) models.Warehouse {
	t.Helper()
	w := createWarehouse(r, wh)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created for warehouse, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Warehouse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("error decoding warehouse: %v", err)
	}
	return created
}

func getInventory(t *testing.T, r http.Handler, productID int) handler.InventoryResult {
	t.Helper()
	w := doJSON(r, http.MethodGet, fmt.Sprintf("/products/%d/inventory", productID), nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK for inventory, got %d", w.Code)
	}
	var result handler.InventoryResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding inventory: %v", err)
	}
	return result
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func newMultipartRequest(body *bytes.Buffer, contentType string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/products/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}
