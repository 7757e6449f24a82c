package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/testutil"
)

func TestServiceCenterCreate(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/service-centers", map[string]interface{}{
		"name":         "North Austin Appliance Repair",
		"contact_name": "Dana Kim",
		"phone":        "512-555-0170",
		"address": map[string]string{
			"street": "11 Burnet Rd",
			"city":   "Austin",
			"state":  "TX",
			"zip":    "78757",
		},
		"specializations": []string{"refrigerator", "washer"},
		"brands":          []string{"Frostline"},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})

	if !strings.HasPrefix(data["service_center_id"].(string), "SVC-") {
		t.Errorf("Expected SVC- prefix, got %v", data["service_center_id"])
	}
	if data["type"] != "authorized" {
		t.Errorf("Expected default type authorized, got %v", data["type"])
	}
	if data["labor_rate"].(float64) != 85 {
		t.Errorf("Expected default labor_rate 85, got %v", data["labor_rate"])
	}
	if data["coverage_radius"].(float64) != 50 {
		t.Errorf("Expected default coverage_radius 50, got %v", data["coverage_radius"])
	}
	if data["active"] != true {
		t.Errorf("Expected active true, got %v", data["active"])
	}
}

func TestTechnicianCreateIncrementsCenterCount(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedServiceCenter(t, db, "SVC-001", "Austin Appliance Service")

	w := testutil.DoRequest(router, "POST", "/api/v1/technicians", map[string]interface{}{
		"first_name":        "Sam",
		"last_name":         "Okafor",
		"service_center_id": "SVC-001",
		"specializations":   []string{"refrigerator"},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if !strings.HasPrefix(data["technician_id"].(string), "TECH-") {
		t.Errorf("Expected TECH- prefix, got %v", data["technician_id"])
	}
	if data["available"] != true {
		t.Errorf("Expected available true, got %v", data["available"])
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/service-centers/SVC-001", nil, token)
	center := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if center["technician_count"].(float64) != 1 {
		t.Errorf("Expected technician_count 1, got %v", center["technician_count"])
	}
}

func TestTechnicianAvailabilityToggle(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedServiceCenter(t, db, "SVC-001", "Austin Appliance Service")
	testutil.SeedTechnician(t, db, "TECH-001", "SVC-001")

	// empty body toggles the current value
	w := testutil.DoRequest(router, "PUT", "/api/v1/technicians/TECH-001/availability", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["available"] != false {
		t.Errorf("Expected toggle to false, got %v", data["available"])
	}

	// explicit value wins
	w = testutil.DoRequest(router, "PUT", "/api/v1/technicians/TECH-001/availability",
		map[string]bool{"available": true}, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["available"] != true {
		t.Errorf("Expected available true, got %v", data["available"])
	}
}

func TestDispatchRecommend(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	// high rated center with an available technician
	testutil.SeedServiceCenter(t, db, "SVC-001", "Austin Appliance Service")
	testutil.SeedTechnician(t, db, "TECH-001", "SVC-001")

	// lower rated, slower center with no technicians
	slow := testutil.SeedServiceCenter(t, db, "SVC-002", "South Austin Repair")
	slow.Rating = 3.0
	slow.AvgResponseDays = 5
	db.Save(slow)

	// specialization mismatch, must be excluded
	other := testutil.SeedServiceCenter(t, db, "SVC-003", "HVAC Only Co")
	other.Specializations = entity.StringList{"hvac"}
	db.Save(other)

	w := testutil.DoRequest(router, "GET", "/api/v1/service-centers/dispatch/recommend?product_category=refrigerator", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(items))
	}

	first := items[0].(map[string]interface{})
	second := items[1].(map[string]interface{})
	if first["service_center_id"] != "SVC-001" {
		t.Errorf("Expected SVC-001 ranked first, got %v", first["service_center_id"])
	}
	// rating 4.5 -> 36, response 2d -> 15, available tech -> 30
	if first["dispatch_score"].(float64) != 81 {
		t.Errorf("Expected dispatch_score 81, got %v", first["dispatch_score"])
	}
	if first["available_technicians"].(float64) != 1 {
		t.Errorf("Expected 1 available technician, got %v", first["available_technicians"])
	}
	// rating 3 -> 24, response 5d -> 6, no techs
	if second["dispatch_score"].(float64) != 30 {
		t.Errorf("Expected dispatch_score 30, got %v", second["dispatch_score"])
	}
}

func TestDispatchRecommendRequiresCategory(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "GET", "/api/v1/service-centers/dispatch/recommend", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 without product_category, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDispatchRecommendLimit(t *testing.T) {
	router, db := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	testutil.SeedServiceCenter(t, db, "SVC-001", "Center One")
	testutil.SeedServiceCenter(t, db, "SVC-002", "Center Two")
	testutil.SeedServiceCenter(t, db, "SVC-003", "Center Three")

	w := testutil.DoRequest(router, "GET", "/api/v1/service-centers/dispatch/recommend?product_category=refrigerator&limit=2", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total"].(float64) != 2 {
		t.Errorf("Expected limit of 2 candidates, got %v", data["total"])
	}
}
