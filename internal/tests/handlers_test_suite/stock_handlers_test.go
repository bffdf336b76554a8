package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	handler "github.com/stockroom-io/stockroom/internal/http/handlers"
	"github.com/stockroom-io/stockroom/internal/models"
)

func TestStockInHandler(t *testing.T) {
	r := newTestServer(t)
	p := mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD1", Name: "Widget"})
	wh := mustCreateWarehouse(t, r, handler.WarehouseRequest{Name: "Main"})

	w := stockIn(r, p.ID, handler.StockRequest{WarehouseID: wh.ID, Quantity: 100, Reason: "initial"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var mov models.Movement
	if err := json.NewDecoder(w.Body).Decode(&mov); err != nil {
		t.Fatalf("error decoding movement: %v", err)
	}
	if mov.FromWarehouseID != nil {
		t.Errorf("expected nil from_warehouse_id for stock-in, got %v", *mov.FromWarehouseID)
	}
	if mov.ToWarehouseID == nil || *mov.ToWarehouseID != wh.ID {
		t.Errorf("expected to_warehouse_id %d, got %v", wh.ID, mov.ToWarehouseID)
	}

	inv := getInventory(t, r, p.ID)
	if len(inv.Data) != 1 || inv.Data[0].Quantity != 100 || inv.Data[0].WarehouseID != wh.ID {
		t.Errorf("unexpected inventory after stock-in: %+v", inv.Data)
	}
	if inv.Data[0].WarehouseName != "Main" {
		t.Errorf("expected warehouse name 'Main', got %q", inv.Data[0].WarehouseName)
	}
}

func TestStockInHandler_InvalidQuantity(t *testing.T) {
	r := newTestServer(t)
	p := mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD1", Name: "Widget"})
	wh := mustCreateWarehouse(t, r, handler.WarehouseRequest{Name: "Main"})

	for _, qty := range []int{0, -10} {
		w := stockIn(r, p.ID, handler.StockRequest{WarehouseID: wh.ID, Quantity: qty})
		if w.Code != http.StatusBadRequest {
			t.Errorf("quantity %d: expected 400 Bad Request, got %d", qty, w.Code)
		}
	}

	inv := getInventory(t, r, p.ID)
	if len(inv.Data) != 0 {
		t.Errorf("expected no inventory rows after rejected stock-in, got %+v", inv.Data)
	}
	if len(movementRepo.All()) != 0 {
		t.Errorf("expected no movements after rejected stock-in, got %d", len(movementRepo.All()))
	}
}

func TestStockOutHandler_InsufficientStock(t *testing.T) {
	r := newTestServer(t)
	p := mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD1", Name: "Widget"})
	wh := mustCreateWarehouse(t, r, handler.WarehouseRequest{Name: "Main"})

	if w := stockIn(r, p.ID, handler.StockRequest{WarehouseID: wh.ID, Quantity: 80}); w.Code != http.StatusCreated {
		t.Fatalf("stock-in failed: %d", w.Code)
	}

	w := stockOut(r, p.ID, handler.StockRequest{WarehouseID: wh.ID, Quantity: 200})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}

	inv := getInventory(t, r, p.ID)
	if len(inv.Data) != 1 || inv.Data[0].Quantity != 80 {
		t.Errorf("inventory should be unchanged at 80, got %+v", inv.Data)
	}
}

func TestTransferHandler(t *testing.T) {
	r := newTestServer(t)
	p := mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD1", Name: "Widget"})
	w1 := mustCreateWarehouse(t, r, handler.WarehouseRequest{Name: "Main"})
	w2 := mustCreateWarehouse(t, r, handler.WarehouseRequest{Name: "Overflow"})

	if w := stockIn(r, p.ID, handler.StockRequest{WarehouseID: w1.ID, Quantity: 100}); w.Code != http.StatusCreated {
		t.Fatalf("stock-in failed: %d", w.Code)
	}

	w := transfer(r, p.ID, handler.TransferRequest{FromWarehouseID: w1.ID, ToWarehouseID: w2.ID, Quantity: 20})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	inv := getInventory(t, r, p.ID)
	quantities := map[int]int{}
	for _, e := range inv.Data {
		quantities[e.WarehouseID] = e.Quantity
	}
	if quantities[w1.ID] != 80 || quantities[w2.ID] != 20 {
		t.Errorf("expected 80/20 split, got %+v", quantities)
	}
	if len(movementRepo.All()) != 2 {
		t.Errorf("expected 2 movements, got %d", len(movementRepo.All()))
	}
}

func TestStockHandlers_ProductNotFound(t *testing.T) {
	r := newTestServer(t)
	wh := mustCreateWarehouse(t, r, handler.WarehouseRequest{Name: "Main"})

	w := stockIn(r, 999, handler.StockRequest{WarehouseID: wh.ID, Quantity: 10})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 Not Found, got %d", w.Code)
	}
}

func TestStockInHandler_RequiresAuth(t *testing.T) {
	r := newTestServer(t)
	p := mustCreateProduct(t, r, handler.ProductRequest{SKU: "PROD1", Name: "Widget"})
	wh := mustCreateWarehouse(t, r, handler.WarehouseRequest{Name: "Main"})

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/products/%d/stock-in", p.ID),
		handler.StockRequest{WarehouseID: wh.ID, Quantity: 10}, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized without token, got %d", w.Code)
	}
}
