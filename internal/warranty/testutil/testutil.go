package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bitfantasy/nimo-warranty/internal/middleware"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
)

const (
	TestSchema = "test_warranty"
	JWTSecret  = "nimo-warranty-jwt-secret-key-2024"
)

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// loadEnv loads .env from the project root
func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
// Skips the test if Postgres is unreachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "nimo_warranty")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// Create a unique test schema for isolation
	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	// First: create schema using a temporary connection
	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("Postgres unavailable, skipping: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// Second: open connection with search_path in DSN so ALL pooled connections use test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	// Cleanup on test completion
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		// Reconnect to drop the schema
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, email string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"roles": roles,
		"iss":   "nimo-warranty",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken(
		"test-user-001",
		"Test Admin",
		"admin@test.com",
		[]string{"warranty_admin"},
	)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedCustomer creates a test customer
func SeedCustomer(t *testing.T, db *gorm.DB, id, firstName, lastName, email string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{
		ID:               id,
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		PreferredContact: "email",
		CustomerTier:     entity.CustomerTierStandard,
		RegistrationDate: time.Now(),
		Address:          entity.Address{Street: "1 Main St", City: "Austin", State: "TX", Zip: "78701"},
		Active:           true,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("Failed to seed test customer: %v", err)
	}
	return c
}

// SeedProduct creates a test product
func SeedProduct(t *testing.T, db *gorm.DB, id, sku, name, category string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:                       id,
		SKU:                      sku,
		Name:                     name,
		Category:                 category,
		Brand:                    "Frostline",
		ModelNumber:              "FL-" + sku,
		MSRP:                     1299.99,
		StandardWarrantyMonths:   12,
		PartsWarrantyMonths:      12,
		LaborWarrantyMonths:      12,
		ReplacementCostThreshold: entity.DefaultReplacementCostThreshold,
		MaxClaimsPerYear:         entity.DefaultMaxClaimsPerYear,
		Active:                   true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to seed test product: %v", err)
	}
	return p
}

// SeedWarranty creates an active test warranty covering the past year and the next one
func SeedWarranty(t *testing.T, db *gorm.DB, id, customerID, productID string) *entity.Warranty {
	t.Helper()
	now := time.Now()
	w := &entity.Warranty{
		ID:                id,
		CustomerID:        customerID,
		ProductID:         productID,
		SerialNumber:      "SN-" + id,
		PurchaseDate:      now.AddDate(-1, 0, 0),
		PurchasePrice:     1299.99,
		WarrantyType:      "standard",
		CoverageStartDate: now.AddDate(-1, 0, 0),
		CoverageEndDate:   now.AddDate(1, 0, 0),
		Deductible:        50,
		MaxCoverageAmount: 1299.99,
		CoverageDetails:   entity.DefaultCoverageDetails(),
		Status:            entity.WarrantyStatusActive,
	}
	if err := db.Create(w).Error; err != nil {
		t.Fatalf("Failed to seed test warranty: %v", err)
	}
	return w
}

// SeedServiceCenter creates an active test service center
func SeedServiceCenter(t *testing.T, db *gorm.DB, id, name string) *entity.ServiceCenter {
	t.Helper()
	s := &entity.ServiceCenter{
		ID:              id,
		Name:            name,
		Type:            entity.ServiceCenterTypeAuthorized,
		ContactName:     "Pat Reyes",
		Phone:           "512-555-0100",
		Address:         entity.Address{Street: "42 Service Rd", City: "Austin", State: "TX", Zip: "78702"},
		Specializations: entity.StringList{"refrigerator", "dishwasher"},
		Brands:          entity.StringList{"Frostline"},
		Rating:          4.5,
		AvgResponseDays: 2,
		LaborRate:       entity.DefaultLaborRate,
		CoverageRadius:  50,
		Active:          true,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("Failed to seed test service center: %v", err)
	}
	return s
}

// SeedTechnician creates an available test technician
func SeedTechnician(t *testing.T, db *gorm.DB, id, centerID string) *entity.Technician {
	t.Helper()
	tech := &entity.Technician{
		ID:              id,
		ServiceCenterID: centerID,
		FirstName:       "Sam",
		LastName:        "Okafor",
		Specializations: entity.StringList{"refrigerator"},
		CertifiedBrands: entity.StringList{"Frostline"},
		YearsExperience: 5,
		Rating:          4.8,
		Available:       true,
	}
	if err := db.Create(tech).Error; err != nil {
		t.Fatalf("Failed to seed test technician: %v", err)
	}
	return tech
}
