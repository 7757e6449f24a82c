package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

const dateLayout = "2006-01-02"

// today 当前日期（去掉时分秒）
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// parseDate 解析YYYY-MM-DD日期字段
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, invalidInput("%s must be a valid date (YYYY-MM-DD): %s", field, value)
	}
	return t, nil
}

// WarrantyService 保修服务：登记、注销与覆盖核验
type WarrantyService struct {
	repo         *repository.WarrantyRepository
	claimRepo    *repository.ClaimRepository
	customerRepo *repository.CustomerRepository
	productRepo  *repository.ProductRepository
}

func NewWarrantyService(
	repo *repository.WarrantyRepository,
	claimRepo *repository.ClaimRepository,
	customerRepo *repository.CustomerRepository,
	productRepo *repository.ProductRepository,
) *WarrantyService {
	return &WarrantyService{repo: repo, claimRepo: claimRepo, customerRepo: customerRepo, productRepo: productRepo}
}

// RegisterWarrantyRequest 登记保修请求
type RegisterWarrantyRequest struct {
	CustomerID        string                 `json:"customer_id" binding:"required"`
	ProductID         string                 `json:"product_id" binding:"required"`
	SerialNumber      string                 `json:"serial_number" binding:"required"`
	PurchaseDate      string                 `json:"purchase_date" binding:"required"`
	PurchasePrice     float64                `json:"purchase_price"`
	Retailer          string                 `json:"retailer"`
	RetailerStoreID   string                 `json:"retailer_store_id"`
	WarrantyType      string                 `json:"warranty_type" binding:"required"`
	CoverageStartDate string                 `json:"coverage_start_date"`
	CoverageEndDate   string                 `json:"coverage_end_date"`
	Deductible        float64                `json:"deductible"`
	MaxCoverageAmount float64                `json:"max_coverage_amount"`
	CoverageDetails   entity.CoverageDetails `json:"coverage_details"`
	PremiumPaid       float64                `json:"premium_paid"`
}

// Register 登记新保修，同一事务内递增客户保修计数
func (s *WarrantyService) Register(ctx context.Context, req *RegisterWarrantyRequest) (*entity.Warranty, error) {
	if req.CustomerID == "" || req.ProductID == "" || req.SerialNumber == "" || req.PurchaseDate == "" || req.WarrantyType == "" {
		return nil, invalidInput("customer_id, product_id, serial_number, purchase_date, and warranty_type are required")
	}
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return nil, notFoundOr(err, "customer", req.CustomerID)
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, notFoundOr(err, "product", req.ProductID)
	}

	purchaseDate, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	coverageStart := purchaseDate
	if req.CoverageStartDate != "" {
		if coverageStart, err = parseDate("coverage_start_date", req.CoverageStartDate); err != nil {
			return nil, err
		}
	}
	coverageEnd := coverageStart.AddDate(0, product.StandardWarrantyMonths, 0)
	if req.CoverageEndDate != "" {
		if coverageEnd, err = parseDate("coverage_end_date", req.CoverageEndDate); err != nil {
			return nil, err
		}
	}
	if coverageEnd.Before(coverageStart) {
		return nil, invalidInput("coverage_end_date must not be before coverage_start_date")
	}

	maxCoverage := req.MaxCoverageAmount
	if maxCoverage == 0 {
		maxCoverage = req.PurchasePrice
	}
	details := req.CoverageDetails
	if details == nil {
		details = entity.DefaultCoverageDetails()
	}

	id, err := s.repo.NextCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate warranty id: %w", err)
	}

	w := &entity.Warranty{
		ID:                id,
		CustomerID:        req.CustomerID,
		ProductID:         req.ProductID,
		SerialNumber:      req.SerialNumber,
		PurchaseDate:      purchaseDate,
		PurchasePrice:     req.PurchasePrice,
		Retailer:          req.Retailer,
		RetailerStoreID:   req.RetailerStoreID,
		WarrantyType:      req.WarrantyType,
		CoverageStartDate: coverageStart,
		CoverageEndDate:   coverageEnd,
		Deductible:        req.Deductible,
		MaxCoverageAmount: maxCoverage,
		CoverageDetails:   details,
		PremiumPaid:       req.PremiumPaid,
		Status:            entity.WarrantyStatusActive,
	}
	if err := s.repo.CreateWithCustomerCounter(ctx, w); err != nil {
		return nil, fmt.Errorf("register warranty: %w", err)
	}
	return w, nil
}

// UpdateWarrantyRequest 保修可自由修改的字段（不含状态机字段）
type UpdateWarrantyRequest struct {
	SerialNumber      *string                 `json:"serial_number"`
	Retailer          *string                 `json:"retailer"`
	RetailerStoreID   *string                 `json:"retailer_store_id"`
	Deductible        *float64                `json:"deductible"`
	MaxCoverageAmount *float64                `json:"max_coverage_amount"`
	CoverageDetails   *entity.CoverageDetails `json:"coverage_details"`
	PremiumPaid       *float64                `json:"premium_paid"`
}

func (s *WarrantyService) Update(ctx context.Context, id string, req *UpdateWarrantyRequest) (*entity.Warranty, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "warranty", id)
	}
	if req.SerialNumber != nil {
		w.SerialNumber = *req.SerialNumber
	}
	if req.Retailer != nil {
		w.Retailer = *req.Retailer
	}
	if req.RetailerStoreID != nil {
		w.RetailerStoreID = *req.RetailerStoreID
	}
	if req.Deductible != nil {
		w.Deductible = *req.Deductible
	}
	if req.MaxCoverageAmount != nil {
		w.MaxCoverageAmount = *req.MaxCoverageAmount
	}
	if req.CoverageDetails != nil {
		w.CoverageDetails = *req.CoverageDetails
	}
	if req.PremiumPaid != nil {
		w.PremiumPaid = *req.PremiumPaid
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Cancel 注销保修，仅active状态可注销；注销后不可恢复
func (s *WarrantyService) Cancel(ctx context.Context, id, reason string) (*entity.Warranty, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "warranty", id)
	}
	if w.Status != entity.WarrantyStatusActive {
		return nil, invalidState("warranty is not active (current status: %s)", w.Status)
	}
	if reason == "" {
		reason = "Customer request"
	}
	now := today()
	w.Status = entity.WarrantyStatusCancelled
	w.CancellationDate = &now
	w.CancellationReason = reason
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WarrantyService) Get(ctx context.Context, id string) (*entity.Warranty, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "warranty", id)
	}
	return w, nil
}

// WarrantyDetail 保修详情：含客户、产品与理赔历史
type WarrantyDetail struct {
	entity.Warranty
	Claims []entity.Claim `json:"claims"`
}

func (s *WarrantyService) GetDetail(ctx context.Context, id string) (*WarrantyDetail, error) {
	w, err := s.repo.FindByIDWithRelations(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "warranty", id)
	}
	claims, err := s.claimRepo.ListByWarranty(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WarrantyDetail{Warranty: *w, Claims: claims}, nil
}

func (s *WarrantyService) List(ctx context.Context, params repository.WarrantyListParams) ([]entity.Warranty, error) {
	return s.repo.List(ctx, params)
}

// --- 覆盖核验 ---

// CoverageSummary 核验通过时返回的保修摘要
type CoverageSummary struct {
	WarrantyID        string                 `json:"warranty_id"`
	WarrantyType      string                 `json:"warranty_type"`
	CoverageEndDate   time.Time              `json:"coverage_end_date"`
	Deductible        float64                `json:"deductible"`
	MaxCoverageAmount float64                `json:"max_coverage_amount"`
	CoverageDetails   entity.CoverageDetails `json:"coverage_details"`
	ClaimsThisYear    int                    `json:"claims_this_year"`
	MaxClaimsPerYear  *int                   `json:"max_claims_per_year"`
}

// CoverageResult 覆盖核验结果。未覆盖是常规业务结果而非错误。
type CoverageResult struct {
	Covered  bool             `json:"covered"`
	Reason   string           `json:"reason"`
	Warranty *CoverageSummary `json:"warranty,omitempty"`
}

// verifyBasic 核验第1–3步：保修存在、状态active、日期在保障期内。
// 提交理赔时强制执行的前置条件。
func (s *WarrantyService) verifyBasic(ctx context.Context, warrantyID string, date time.Time) (*entity.Warranty, string, error) {
	w, err := s.repo.FindByID(ctx, warrantyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "Warranty not found", nil
		}
		return nil, "", err
	}
	if w.Status != entity.WarrantyStatusActive {
		return nil, fmt.Sprintf("Warranty status is '%s'", w.Status), nil
	}
	if date.Before(w.CoverageStartDate) {
		return nil, "Claim date before coverage start", nil
	}
	if date.After(w.CoverageEndDate) {
		return nil, "Warranty has expired", nil
	}
	return w, "", nil
}

// Verify 完整覆盖核验。第1–3步是硬前置条件；第4步（年度理赔上限）
// 与第5步（故障类型保障项）只在此处检查，提交理赔时不再复核——
// 这两项留给审批环节裁量。
func (s *WarrantyService) Verify(ctx context.Context, warrantyID, claimDate, issueType string) (*CoverageResult, error) {
	date := today()
	if claimDate != "" {
		var err error
		if date, err = parseDate("claim_date", claimDate); err != nil {
			return nil, err
		}
	}

	w, reason, err := s.verifyBasic(ctx, warrantyID, date)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return &CoverageResult{Covered: false, Reason: reason}, nil
	}

	// 第4步：当前自然年内的理赔数对照产品上限
	yearClaims, err := s.claimRepo.CountInYear(ctx, warrantyID, time.Now().Year())
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, w.ProductID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		product = nil
	}
	if product != nil && int(yearClaims) >= product.MaxClaimsPerYear {
		return &CoverageResult{
			Covered: false,
			Reason:  fmt.Sprintf("Maximum claims per year (%d) already reached", product.MaxClaimsPerYear),
		}, nil
	}

	summary := &CoverageSummary{
		WarrantyID:        w.ID,
		WarrantyType:      w.WarrantyType,
		CoverageEndDate:   w.CoverageEndDate,
		Deductible:        w.Deductible,
		MaxCoverageAmount: w.MaxCoverageAmount,
		CoverageDetails:   w.CoverageDetails,
		ClaimsThisYear:    int(yearClaims),
	}
	if product != nil {
		summary.MaxClaimsPerYear = &product.MaxClaimsPerYear
	}

	// 第5步：故障类型对应的保障项。无映射的类型（other）默认覆盖。
	if issueType != "" && w.CoverageDetails != nil {
		if key, ok := entity.CoverageKeyForIssue(issueType); ok && !w.CoverageDetails[key] {
			return &CoverageResult{
				Covered:  false,
				Reason:   fmt.Sprintf("Coverage for '%s' is not included in this warranty plan", issueType),
				Warranty: summary,
			}, nil
		}
	}

	return &CoverageResult{Covered: true, Reason: "Coverage confirmed", Warranty: summary}, nil
}
