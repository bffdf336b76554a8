package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	handler "github.com/stockroom-io/stockroom/internal/http/handlers"
	"github.com/stockroom-io/stockroom/internal/models"
)

func TestCreateProductHandler_Valid(t *testing.T) {
	r := newTestServer(t)

	created := mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD1", Name: "Widget", Description: "a widget"})

	if created.SKU != "PROD1" {
		t.Errorf("expected SKU 'PROD1', got %v", created.SKU)
	}
	if created.Name != "Widget" {
		t.Errorf("expected name 'Widget', got %v", created.Name)
	}
	if created.Unit != "each" {
		t.Errorf("expected default unit 'each', got %v", created.Unit)
	}
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	r := newTestServer(t)

	tests := []struct {
		name           string
		payload        handler.ProductRequest
		expectedErrors []string
	}{
		{
			name:           "Empty SKU and name",
			payload:        handler.ProductRequest{SKU: "", Name: ""},
			expectedErrors: []string{"SKU", "Name"},
		},
		{
			name:           "Empty SKU only",
			payload:        handler.ProductRequest{SKU: "", Name: "Widget"},
			expectedErrors: []string{"SKU"},
		},
		{
			name:           "Empty name only",
			payload:        handler.ProductRequest{SKU: "PROD1", Name: ""},
			expectedErrors: []string{"Name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createProduct(r, tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 Bad Request, got %d", w.Code)
			}

			var errs []handler.ProductValidationError
			if err := json.NewDecoder(w.Body).Decode(&errs); err != nil {
				t.Fatalf("error decoding validation errors: %v", err)
			}
			if len(errs) != len(tt.expectedErrors) {
				t.Fatalf("expected %d errors, got %d", len(tt.expectedErrors), len(errs))
			}
			for i, field := range tt.expectedErrors {
				if errs[i].Field != field {
					t.Errorf("expected error on field %q, got %q", field, errs[i].Field)
				}
			}
		})
	}
}

func TestCreateProductHandler_DuplicatedSKU(t *testing.T) {
	r := newTestServer(t)
	mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD1", Name: "Widget"})

	w := createProduct(r, handler.ProductRequest{SKU: "PROD1", Name: "Other widget"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 Conflict for duplicated SKU, got %d", w.Code)
	}
}

func TestGetProductBySKUHandler(t *testing.T) {
	r := newTestServer(t)
	created := mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD1", Name: "Widget"})

	w := doJSON(r, http.MethodGet, "/products/sku/PROD1", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var p models.Product
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("error decoding product: %v", err)
	}
	if p.ID != created.ID {
		t.Errorf("expected product id %d, got %d", created.ID, p.ID)
	}

	w = doJSON(r, http.MethodGet, "/products/sku/NOPE", nil, false)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 Not Found for unknown SKU, got %d", w.Code)
	}
}

func TestGetProductsHandler_Filter(t *testing.T) {
	r := newTestServer(t)
	mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD1", Name: "Red Widget"})
	mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD2", Name: "Blue Widget"})
	mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD3", Name: "Gadget"})

	w := doJSON(r, http.MethodGet, "/products?name=widget", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var result handler.ProductsSearchResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding result: %v", err)
	}
	if result.Meta.TotalCount != 2 || len(result.Data) != 2 {
		t.Errorf("expected 2 widgets, got %d (total %d)", len(result.Data), result.Meta.TotalCount)
	}
}

func TestImportProductsHandler(t *testing.T) {
	r := newTestServer(t)

	csv := "sku,name,description,unit\nPROD1,Widget,a widget,each\nPROD2,Gadget,,box\n,Nameless,,\n"
	body, contentType := multipartCSV(csv, "products.csv")

	req, w := newMultipartRequest(body, contentType)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var result handler.ImportProductsResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding result: %v", err)
	}
	if result.ImportedProductsCount != 2 {
		t.Errorf("expected 2 imported products, got %d", result.ImportedProductsCount)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 row error, got %d", len(result.Errors))
	}
}

func TestImportProductsHandler_AdminOnly(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/register", handler.CredentialsRequest{Username: "mortal", Password: "secret123"}, false)
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", w.Code)
	}
	userToken, err := generateToken(r, "mortal", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	body, contentType := multipartCSV("sku,name\nPROD1,Widget\n", "products.csv")
	req, rec := newMultipartRequest(body, contentType)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden for non-admin import, got %d", rec.Code)
	}
}
