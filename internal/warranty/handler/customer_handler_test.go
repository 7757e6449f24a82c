package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/testutil"
)

func registerCustomer(t *testing.T, router *gin.Engine, token, firstName, lastName, email string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/customers", map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"phone":      "512-555-0142",
		"address": map[string]string{
			"street": "900 Congress Ave",
			"city":   "Austin",
			"state":  "TX",
			"zip":    "78701",
		},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func TestCustomerRegister(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	data := registerCustomer(t, router, token, "Maria", "Santos", "maria.santos@example.com")

	id, ok := data["customer_id"].(string)
	if !ok || id == "" {
		t.Fatalf("Expected non-empty customer_id, got %v", data["customer_id"])
	}
	if data["customer_tier"] != "standard" {
		t.Errorf("Expected default tier 'standard', got %v", data["customer_tier"])
	}
	if data["preferred_contact"] != "email" {
		t.Errorf("Expected default preferred_contact 'email', got %v", data["preferred_contact"])
	}
	if data["active"] != true {
		t.Errorf("Expected active true, got %v", data["active"])
	}
}

func TestCustomerRegisterDuplicateEmail(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	registerCustomer(t, router, token, "Maria", "Santos", "dup@example.com")

	w := testutil.DoRequest(router, "POST", "/api/v1/customers", map[string]interface{}{
		"first_name": "Other",
		"last_name":  "Person",
		"email":      "dup@example.com",
	}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate email, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40900 {
		t.Errorf("Expected code 40900, got %v", resp["code"])
	}
}

func TestCustomerRegisterMissingFields(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/customers", map[string]interface{}{
		"first_name": "NoEmail",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCustomerGetAndUpdate(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	data := registerCustomer(t, router, token, "Li", "Wei", "li.wei@example.com")
	id := data["customer_id"].(string)

	w := testutil.DoRequest(router, "GET", "/api/v1/customers/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	detail := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if detail["email"] != "li.wei@example.com" {
		t.Errorf("Expected email li.wei@example.com, got %v", detail["email"])
	}

	w = testutil.DoRequest(router, "PUT", "/api/v1/customers/"+id, map[string]interface{}{
		"customer_tier": "premium",
		"phone":         "512-555-0199",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if updated["customer_tier"] != "premium" {
		t.Errorf("Expected tier premium, got %v", updated["customer_tier"])
	}
}

func TestCustomerNotFound(t *testing.T) {
	router, _ := setupTestAPI(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "GET", "/api/v1/customers/CUST-9999", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCustomerRequiresAuth(t *testing.T) {
	router, _ := setupTestAPI(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/customers", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}
