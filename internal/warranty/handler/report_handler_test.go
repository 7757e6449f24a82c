package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/testutil"
)

func TestReportDashboard(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	seedClaimFixtures(t, db)
	testutil.SeedServiceCenter(t, db, "SVC-001", "Austin Appliance Service")
	testutil.SeedTechnician(t, db, "TECH-001", "SVC-001")

	claim := fileClaim(t, router, token)
	testutil.DoRequest(router, "PUT", "/api/v1/claims/"+claim["claim_id"].(string)+"/deny", nil, token)
	fileClaim(t, router, token)

	w := testutil.DoRequest(router, "GET", "/api/v1/reports/dashboard", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})

	claims := data["claims"].(map[string]interface{})
	if claims["total"].(float64) != 2 {
		t.Errorf("Expected 2 claims, got %v", claims["total"])
	}
	byStatus := claims["by_status"].(map[string]interface{})
	if byStatus["denied"].(float64) != 1 || byStatus["pending_approval"].(float64) != 1 {
		t.Errorf("Unexpected claim status breakdown: %v", byStatus)
	}

	warranties := data["warranties"].(map[string]interface{})
	if warranties["total"].(float64) != 1 {
		t.Errorf("Expected 1 warranty, got %v", warranties["total"])
	}

	alerts := data["alerts"].(map[string]interface{})
	if alerts["open_claims"].(float64) != 1 {
		t.Errorf("Expected 1 open claim, got %v", alerts["open_claims"])
	}
	if alerts["pending_approval"].(float64) != 1 {
		t.Errorf("Expected 1 pending claim, got %v", alerts["pending_approval"])
	}

	centers := data["service_centers"].(map[string]interface{})
	if centers["active"].(float64) != 1 || centers["available_technicians"].(float64) != 1 {
		t.Errorf("Unexpected service center summary: %v", centers)
	}
}

func TestReportClaimsSummaryFinancials(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	claimID := approvedClaim(t, router, db, token)
	order := createRepairOrder(t, router, token, claimID)

	w := testutil.DoRequest(router, "PUT", "/api/v1/repair-orders/"+order["repair_order_id"].(string)+"/complete",
		map[string]interface{}{
			"work_performed": "Replaced relay",
			"labor_hours":    2.0,
			"parts_used": []map[string]interface{}{
				{"part_number": "RLY-4411", "quantity": 2, "unit_cost": 12.50},
				{"part_number": "CAP-2210", "total_cost": 5.00},
			},
		}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 completing order, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/reports/claims-summary", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})

	if data["total"].(float64) != 1 {
		t.Fatalf("Expected 1 claim, got %v", data["total"])
	}
	period := data["period"].(map[string]interface{})
	if period["from"] != "all" || period["to"] != "all" {
		t.Errorf("Expected open period, got %v", period)
	}
	fin := data["financials"].(map[string]interface{})
	// parts 30 + labor 170 + travel 5 = 205 actual cost, 50 deductible collected
	if fin["total_repair_cost"].(float64) != 205 {
		t.Errorf("Expected total_repair_cost 205, got %v", fin["total_repair_cost"])
	}
	if fin["total_deductibles_collected"].(float64) != 50 {
		t.Errorf("Expected deductibles 50, got %v", fin["total_deductibles_collected"])
	}
	if fin["net_claim_cost"].(float64) != 155 {
		t.Errorf("Expected net_claim_cost 155, got %v", fin["net_claim_cost"])
	}
	if fin["avg_repair_cost"].(float64) != 205 {
		t.Errorf("Expected avg_repair_cost 205, got %v", fin["avg_repair_cost"])
	}
}

func TestReportClaimsSummaryDateFilter(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	seedClaimFixtures(t, db)
	fileClaim(t, router, token)

	// a window in the past excludes today's claim
	w := testutil.DoRequest(router, "GET", "/api/v1/reports/claims-summary?from=2020-01-01&to=2020-12-31", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total"].(float64) != 0 {
		t.Errorf("Expected 0 claims in past window, got %v", data["total"])
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/reports/claims-summary?from=not-a-date", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for bad date, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReportWarrantyExpiration(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedCustomer(t, db, "CUST-0001", "Jo", "Park", "jo.park@example.com")
	testutil.SeedProduct(t, db, "PRD-001", "FRG-300", "Frostline Refrigerator", "refrigerator")

	// expires in ~30 days
	expiring := testutil.SeedWarranty(t, db, "WRN-10001", "CUST-0001", "PRD-001")
	expiring.CoverageEndDate = expiring.CoverageEndDate.AddDate(0, -11, 0)
	db.Save(expiring)
	// expires in ~a year, outside the 90 day default window
	testutil.SeedWarranty(t, db, "WRN-10002", "CUST-0001", "PRD-001")

	w := testutil.DoRequest(router, "GET", "/api/v1/reports/warranty-expiration", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total"].(float64) != 1 {
		t.Fatalf("Expected 1 expiring warranty, got %v", data["total"])
	}
	row := data["items"].([]interface{})[0].(map[string]interface{})
	if row["warranty_id"] != "WRN-10001" {
		t.Errorf("Expected WRN-10001, got %v", row["warranty_id"])
	}
	if row["customer_name"] != "Jo Park" {
		t.Errorf("Expected customer name Jo Park, got %v", row["customer_name"])
	}
	days := row["days_until_expiration"].(float64)
	if days <= 0 || days > 35 {
		t.Errorf("Expected days_until_expiration around 30, got %v", days)
	}
}

func TestReportServiceCenterPerformance(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	claimID := approvedClaim(t, router, db, token)
	testutil.SeedTechnician(t, db, "TECH-001", "SVC-001")
	order := createRepairOrder(t, router, token, claimID)

	w := testutil.DoRequest(router, "PUT", "/api/v1/repair-orders/"+order["repair_order_id"].(string)+"/complete",
		map[string]interface{}{"work_performed": "Replaced relay", "labor_hours": 2.0}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 completing order, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/reports/service-center-performance", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total"].(float64) != 1 {
		t.Fatalf("Expected 1 center, got %v", data["total"])
	}
	row := data["items"].([]interface{})[0].(map[string]interface{})
	if row["service_center_id"] != "SVC-001" {
		t.Errorf("Expected SVC-001, got %v", row["service_center_id"])
	}
	if row["completed_orders"].(float64) != 1 {
		t.Errorf("Expected 1 completed order, got %v", row["completed_orders"])
	}
	// labor 2h * 85 + travel 5 = 175
	if row["total_revenue"].(float64) != 175 {
		t.Errorf("Expected revenue 175, got %v", row["total_revenue"])
	}
	if row["technician_count"].(float64) != 1 || row["available_technicians"].(float64) != 1 {
		t.Errorf("Unexpected technician counts: %v", row)
	}
}

func TestReportReplacementCandidates(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	seedClaimFixtures(t, db)

	// estimate at 95% of the 1299.99 purchase price: recommend replacement
	claim := fileClaim(t, router, token)
	w := testutil.DoRequest(router, "PUT", "/api/v1/claims/"+claim["claim_id"].(string)+"/approve",
		map[string]interface{}{"estimated_repair_cost": 1235.00}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 approving claim, got %d: %s", w.Code, w.Body.String())
	}

	// estimate at 75%: above the 70% threshold but below the replace line
	claim2 := fileClaim(t, router, token)
	w = testutil.DoRequest(router, "PUT", "/api/v1/claims/"+claim2["claim_id"].(string)+"/approve",
		map[string]interface{}{"estimated_repair_cost": 975.00}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 approving claim, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/reports/replacement-candidates", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total"].(float64) != 2 {
		t.Fatalf("Expected 2 candidates, got %v", data["total"])
	}

	byClaim := map[string]map[string]interface{}{}
	for _, item := range data["items"].([]interface{}) {
		row := item.(map[string]interface{})
		byClaim[row["claim_id"].(string)] = row
	}
	if rec := byClaim[claim["claim_id"].(string)]["recommendation"]; rec != "replace" {
		t.Errorf("Expected replace recommendation, got %v", rec)
	}
	if rec := byClaim[claim2["claim_id"].(string)]["recommendation"]; rec != "evaluate" {
		t.Errorf("Expected evaluate recommendation, got %v", rec)
	}
}
