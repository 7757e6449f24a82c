package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/testutil"
)

func createProduct(t *testing.T, router *gin.Engine, token, sku string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/products", map[string]interface{}{
		"sku":          sku,
		"name":         "Frostline French Door Refrigerator",
		"category":     "refrigerator",
		"brand":        "Frostline",
		"model_number": "FL-" + sku,
		"msrp":         1899.99,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func registerWarranty(t *testing.T, router *gin.Engine, token, customerID, productID string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	req := map[string]interface{}{
		"customer_id":   customerID,
		"product_id":    productID,
		"serial_number": "SN-TEST-001",
		"purchase_date": "2025-03-10",
		"warranty_type": "standard",
	}
	for k, v := range body {
		req[k] = v
	}
	w := testutil.DoRequest(router, "POST", "/api/v1/warranties", req, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func TestWarrantyRegisterDefaults(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	customer := registerCustomer(t, router, token, "Ana", "Torres", "ana.torres@example.com")
	product := createProduct(t, router, token, "FRG-100")
	customerID := customer["customer_id"].(string)
	productID := product["product_id"].(string)

	data := registerWarranty(t, router, token, customerID, productID, map[string]interface{}{
		"purchase_price": 1599.00,
		"deductible":     50,
	})

	id := data["warranty_id"].(string)
	if !strings.HasPrefix(id, "WRN-") {
		t.Errorf("Expected warranty_id with WRN- prefix, got %v", id)
	}
	if data["status"] != "active" {
		t.Errorf("Expected status active, got %v", data["status"])
	}
	// coverage window defaults to purchase date + standard warranty months
	if start := data["coverage_start_date"].(string); !strings.HasPrefix(start, "2025-03-10") {
		t.Errorf("Expected coverage start 2025-03-10, got %v", start)
	}
	if end := data["coverage_end_date"].(string); !strings.HasPrefix(end, "2026-03-10") {
		t.Errorf("Expected coverage end 2026-03-10, got %v", end)
	}
	// max coverage defaults to purchase price
	if data["max_coverage_amount"].(float64) != 1599.00 {
		t.Errorf("Expected max_coverage_amount 1599, got %v", data["max_coverage_amount"])
	}
	details := data["coverage_details"].(map[string]interface{})
	if details["mechanicalFailure"] != true || details["foodSpoilage"] != false {
		t.Errorf("Expected default coverage details, got %v", details)
	}

	// registration increments the customer warranty counter
	w := testutil.DoRequest(router, "GET", "/api/v1/customers/"+customerID, nil, token)
	detail := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if detail["total_warranties"].(float64) != 1 {
		t.Errorf("Expected total_warranties 1, got %v", detail["total_warranties"])
	}
}

func TestWarrantyRegisterUnknownCustomer(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	product := createProduct(t, router, token, "FRG-101")

	w := testutil.DoRequest(router, "POST", "/api/v1/warranties", map[string]interface{}{
		"customer_id":   "CUST-9999",
		"product_id":    product["product_id"],
		"serial_number": "SN-X",
		"purchase_date": "2025-03-10",
		"warranty_type": "standard",
	}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWarrantyRegisterInvalidCoverageWindow(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	testutil.SeedCustomer(t, db, "CUST-0001", "Jo", "Park", "jo.park@example.com")
	testutil.SeedProduct(t, db, "PRD-001", "DSW-200", "Frostline Dishwasher", "dishwasher")

	w := testutil.DoRequest(router, "POST", "/api/v1/warranties", map[string]interface{}{
		"customer_id":         "CUST-0001",
		"product_id":          "PRD-001",
		"serial_number":       "SN-X",
		"purchase_date":       "2025-03-10",
		"warranty_type":       "standard",
		"coverage_start_date": "2025-03-10",
		"coverage_end_date":   "2025-01-01",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for inverted coverage window, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWarrantyCancel(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	testutil.SeedCustomer(t, db, "CUST-0001", "Jo", "Park", "jo.park@example.com")
	testutil.SeedProduct(t, db, "PRD-001", "FRG-102", "Frostline Refrigerator", "refrigerator")
	testutil.SeedWarranty(t, db, "WRN-10001", "CUST-0001", "PRD-001")

	w := testutil.DoRequest(router, "PUT", "/api/v1/warranties/WRN-10001/cancel", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "cancelled" {
		t.Errorf("Expected status cancelled, got %v", data["status"])
	}
	if data["cancellation_reason"] != "Customer request" {
		t.Errorf("Expected default cancellation reason, got %v", data["cancellation_reason"])
	}

	// cancelled warranties cannot be cancelled again
	w = testutil.DoRequest(router, "PUT", "/api/v1/warranties/WRN-10001/cancel",
		map[string]string{"reason": "again"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 on second cancel, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWarrantyVerify(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	testutil.SeedCustomer(t, db, "CUST-0001", "Jo", "Park", "jo.park@example.com")
	testutil.SeedProduct(t, db, "PRD-001", "FRG-103", "Frostline Refrigerator", "refrigerator")
	testutil.SeedWarranty(t, db, "WRN-10001", "CUST-0001", "PRD-001")

	verify := func(path string) map[string]interface{} {
		w := testutil.DoRequest(router, "GET", path, nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		return testutil.ParseResponse(w)["data"].(map[string]interface{})
	}

	// covered issue type
	data := verify("/api/v1/warranties/WRN-10001/verify?issue_type=mechanical_failure")
	if data["covered"] != true {
		t.Fatalf("Expected covered, got %v (reason %v)", data["covered"], data["reason"])
	}
	if data["reason"] != "Coverage confirmed" {
		t.Errorf("Expected 'Coverage confirmed', got %v", data["reason"])
	}
	summary := data["warranty"].(map[string]interface{})
	if summary["warranty_id"] != "WRN-10001" {
		t.Errorf("Expected warranty summary for WRN-10001, got %v", summary["warranty_id"])
	}

	// excluded issue type
	data = verify("/api/v1/warranties/WRN-10001/verify?issue_type=food_spoilage")
	if data["covered"] != false {
		t.Error("Expected food_spoilage to be excluded")
	}
	if data["reason"] != "Coverage for 'food_spoilage' is not included in this warranty plan" {
		t.Errorf("Unexpected reason: %v", data["reason"])
	}

	// "other" has no coverage mapping and is always covered
	data = verify("/api/v1/warranties/WRN-10001/verify?issue_type=other")
	if data["covered"] != true {
		t.Errorf("Expected 'other' to be covered, got reason %v", data["reason"])
	}

	// claim date outside the coverage window
	data = verify("/api/v1/warranties/WRN-10001/verify?claim_date=2031-01-01")
	if data["covered"] != false || data["reason"] != "Warranty has expired" {
		t.Errorf("Expected expiry rejection, got %v / %v", data["covered"], data["reason"])
	}
	data = verify("/api/v1/warranties/WRN-10001/verify?claim_date=2020-01-01")
	if data["covered"] != false || data["reason"] != "Claim date before coverage start" {
		t.Errorf("Expected pre-coverage rejection, got %v / %v", data["covered"], data["reason"])
	}

	// unknown warranty reports not found as a verification result
	data = verify("/api/v1/warranties/WRN-99999/verify")
	if data["covered"] != false || data["reason"] != "Warranty not found" {
		t.Errorf("Expected 'Warranty not found', got %v / %v", data["covered"], data["reason"])
	}
}

func TestWarrantyVerifyCancelled(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	testutil.SeedCustomer(t, db, "CUST-0001", "Jo", "Park", "jo.park@example.com")
	testutil.SeedProduct(t, db, "PRD-001", "FRG-104", "Frostline Refrigerator", "refrigerator")
	testutil.SeedWarranty(t, db, "WRN-10001", "CUST-0001", "PRD-001")
	db.Exec("UPDATE wty_warranties SET status = 'cancelled' WHERE warranty_id = 'WRN-10001'")

	w := testutil.DoRequest(router, "GET", "/api/v1/warranties/WRN-10001/verify", nil, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["covered"] != false || data["reason"] != "Warranty status is 'cancelled'" {
		t.Errorf("Expected cancelled-status rejection, got %v / %v", data["covered"], data["reason"])
	}
}

func TestWarrantyVerifyMaxClaimsReached(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	testutil.SeedCustomer(t, db, "CUST-0001", "Jo", "Park", "jo.park@example.com")
	testutil.SeedProduct(t, db, "PRD-001", "FRG-105", "Frostline Refrigerator", "refrigerator")
	testutil.SeedWarranty(t, db, "WRN-10001", "CUST-0001", "PRD-001")

	// file claims up to the product's yearly limit (2)
	for i := 0; i < 2; i++ {
		w := testutil.DoRequest(router, "POST", "/api/v1/claims", map[string]interface{}{
			"warranty_id": "WRN-10001",
			"customer_id": "CUST-0001",
			"issue_type":  "mechanical_failure",
			"description": "Compressor not cooling",
		}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201 filing claim %d, got %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	w := testutil.DoRequest(router, "GET", "/api/v1/warranties/WRN-10001/verify", nil, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["covered"] != false {
		t.Fatal("Expected verification to fail once yearly limit is reached")
	}
	if data["reason"] != "Maximum claims per year (2) already reached" {
		t.Errorf("Unexpected reason: %v", data["reason"])
	}
}
