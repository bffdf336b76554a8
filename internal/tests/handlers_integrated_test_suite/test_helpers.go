package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stockroom-io/stockroom/internal/auth"
	"github.com/stockroom-io/stockroom/internal/db"
	api "github.com/stockroom-io/stockroom/internal/http"
	handler "github.com/stockroom-io/stockroom/internal/http/handlers"
	rl "github.com/stockroom-io/stockroom/internal/http/rate_limiter"
	"github.com/stockroom-io/stockroom/internal/ledger"
	"github.com/stockroom-io/stockroom/internal/models"
	"github.com/stockroom-io/stockroom/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

var (
	database    *sql.DB
	stockLedger *ledger.PostgresLedger
	token       string

	setupOnce sync.Once
	setupErr  error
)

// setupIntegration wires the postgres stack behind the real router. The
// suite needs a live database and is skipped when DATABASE_URL is unset.
func setupIntegration(t *testing.T) http.Handler {
	t.Helper()

	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set; skipping live database tests")
	}

	setupOnce.Do(func() { setupErr = setup() })
	if setupErr != nil {
		t.Fatalf("database setup failed: %v", setupErr)
	}

	resetTables(t)
	return api.NewRouter()
}

func setup() error {
	// Generous limits so the suite itself never trips the login limiter.
	rl.Configure(100, 100)

	var err error
	database, err = db.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(database, "../../../db/schema.sql"); err != nil {
		return err
	}

	stockLedger = ledger.NewPostgresLedger(database)
	handler.SetLedger(stockLedger)
	handler.SetProductRepo(repo.NewPostgresProductRepository(database))
	handler.SetWarehouseRepo(repo.NewPostgresWarehouseRepository(database))
	handler.SetMovementRepo(repo.NewPostgresMovementRepository(database))
	handler.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))

	userRepo := repo.NewPostgresUserRepository(database)
	handler.SetUserRepo(userRepo)
	handler.SetRefreshTokenStore(auth.NewInMemoryRefreshStore(), 0)

	if err := createAdminIfNotExists(userRepo, "secret"); err != nil {
		return err
	}

	token, err = generateToken(api.NewRouter(), "admin", "secret")
	return err
}

func createAdminIfNotExists(userRepo *repo.PostgresUserRepository, password string) error {
	_, err := userRepo.GetByUsername("admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
	})
	return err
}

func resetTables(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx,
		"TRUNCATE TABLE movements, inventory, products, warehouses RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func doJSON(r http.Handler, method, url string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustCreateProduct(t *testing.T, r http.Handler, p handler.ProductRequest) models.Product {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/products", p)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product failed with %d: %s", w.Code, w.Body.String())
	}
	var created models.Product
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("error decoding product: %v", err)
	}
	return created
}

func mustCreateWarehouse(t *testing.T, r http.Handler, wh handler.WarehouseRequest) models.Warehouse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/warehouses", wh)
	if w.Code != http.StatusCreated {
		t.Fatalf("create warehouse failed with %d: %s", w.Code, w.Body.String())
	}
	var created models.Warehouse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("error decoding warehouse: %v", err)
	}
	return created
}

func getInventory(t *testing.T, r http.Handler, productID int) handler.InventoryResult {
	t.Helper()
	w := doJSON(r, http.MethodGet, fmt.Sprintf("/products/%d/inventory", productID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get inventory failed with %d: %s", w.Code, w.Body.String())
	}
	var result handler.InventoryResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding inventory: %v", err)
	}
	return result
}

func inventoryRowCount(t *testing.T, productID int) int {
	t.Helper()
	var n int
	err := database.QueryRow(`SELECT COUNT(*) FROM inventory WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count inventory rows: %v", err)
	}
	return n
}
