package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/testutil"
)

func TestProductCreateDefaults(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	data := createProduct(t, router, token, "FRG-400")

	if !strings.HasPrefix(data["product_id"].(string), "PRD-") {
		t.Errorf("Expected PRD- prefix, got %v", data["product_id"])
	}
	if data["standard_warranty_months"].(float64) != 12 {
		t.Errorf("Expected default 12 warranty months, got %v", data["standard_warranty_months"])
	}
	if data["replacement_cost_threshold"].(float64) != 0.7 {
		t.Errorf("Expected default threshold 0.7, got %v", data["replacement_cost_threshold"])
	}
	if data["max_claims_per_year"].(float64) != 2 {
		t.Errorf("Expected default max claims 2, got %v", data["max_claims_per_year"])
	}
}

func TestProductDuplicateSKU(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	createProduct(t, router, token, "FRG-401")

	w := testutil.DoRequest(router, "POST", "/api/v1/products", map[string]interface{}{
		"sku":          "FRG-401",
		"name":         "Duplicate",
		"category":     "refrigerator",
		"brand":        "Frostline",
		"model_number": "FL-DUP",
	}, token)
	if w.Code == http.StatusCreated {
		t.Fatalf("Expected duplicate SKU to be rejected, got %d", w.Code)
	}
}

func TestProductDetailStats(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	seedClaimFixtures(t, db)
	fileClaim(t, router, token)

	w := testutil.DoRequest(router, "GET", "/api/v1/products/PRD-001", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	stats := data["stats"].(map[string]interface{})
	if stats["total_warranties_registered"].(float64) != 1 {
		t.Errorf("Expected 1 warranty, got %v", stats["total_warranties_registered"])
	}
	if stats["total_claims"].(float64) != 1 {
		t.Errorf("Expected 1 claim, got %v", stats["total_claims"])
	}
	if stats["claim_rate"].(float64) != 1 {
		t.Errorf("Expected claim_rate 1, got %v", stats["claim_rate"])
	}
	byIssue := stats["claims_by_issue_type"].(map[string]interface{})
	if byIssue["mechanical_failure"].(float64) != 1 {
		t.Errorf("Unexpected issue breakdown: %v", byIssue)
	}
}

func TestProductCategories(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedProduct(t, db, "PRD-001", "FRG-402", "Frostline Refrigerator", "refrigerator")
	testutil.SeedProduct(t, db, "PRD-002", "DSW-402", "Frostline Dishwasher", "dishwasher")
	testutil.SeedProduct(t, db, "PRD-003", "FRG-403", "Frostline Freezer", "refrigerator")

	w := testutil.DoRequest(router, "GET", "/api/v1/products/categories/list", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 2 {
		t.Errorf("Expected 2 distinct categories, got %v", items)
	}
}
