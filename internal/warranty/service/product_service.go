package service

import (
	"context"
	"fmt"
	"math"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// ProductService 产品目录管理
type ProductService struct {
	repo         *repository.ProductRepository
	warrantyRepo *repository.WarrantyRepository
	claimRepo    *repository.ClaimRepository
}

func NewProductService(
	repo *repository.ProductRepository,
	warrantyRepo *repository.WarrantyRepository,
	claimRepo *repository.ClaimRepository,
) *ProductService {
	return &ProductService{repo: repo, warrantyRepo: warrantyRepo, claimRepo: claimRepo}
}

// CreateProductRequest 新增产品请求
type CreateProductRequest struct {
	SKU                      string            `json:"sku" binding:"required"`
	Name                     string            `json:"name" binding:"required"`
	Category                 string            `json:"category" binding:"required"`
	Brand                    string            `json:"brand" binding:"required"`
	ModelNumber              string            `json:"model_number" binding:"required"`
	MSRP                     float64           `json:"msrp"`
	StandardWarrantyMonths   int               `json:"standard_warranty_months"`
	PartsWarrantyMonths      int               `json:"parts_warranty_months"`
	LaborWarrantyMonths      int               `json:"labor_warranty_months"`
	ReplacementCostThreshold float64           `json:"replacement_cost_threshold"`
	MaxClaimsPerYear         int               `json:"max_claims_per_year"`
	CommonFailures           entity.StringList `json:"common_failures"`
	AverageRepairCost        float64           `json:"average_repair_cost"`
}

func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*entity.Product, error) {
	if req.SKU == "" || req.Name == "" || req.Category == "" || req.Brand == "" || req.ModelNumber == "" {
		return nil, invalidInput("sku, name, category, brand, and model_number are required")
	}

	warrantyMonths := req.StandardWarrantyMonths
	if warrantyMonths == 0 {
		warrantyMonths = 12
	}
	partsMonths := req.PartsWarrantyMonths
	if partsMonths == 0 {
		partsMonths = 12
	}
	laborMonths := req.LaborWarrantyMonths
	if laborMonths == 0 {
		laborMonths = 12
	}
	threshold := req.ReplacementCostThreshold
	if threshold == 0 {
		threshold = entity.DefaultReplacementCostThreshold
	}
	maxClaims := req.MaxClaimsPerYear
	if maxClaims == 0 {
		maxClaims = entity.DefaultMaxClaimsPerYear
	}

	id, err := s.repo.NextCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate product id: %w", err)
	}
	p := &entity.Product{
		ID:                       id,
		SKU:                      req.SKU,
		Name:                     req.Name,
		Category:                 req.Category,
		Brand:                    req.Brand,
		ModelNumber:              req.ModelNumber,
		MSRP:                     req.MSRP,
		StandardWarrantyMonths:   warrantyMonths,
		PartsWarrantyMonths:      partsMonths,
		LaborWarrantyMonths:      laborMonths,
		ReplacementCostThreshold: threshold,
		MaxClaimsPerYear:         maxClaims,
		CommonFailures:           req.CommonFailures,
		AverageRepairCost:        req.AverageRepairCost,
		Active:                   true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// UpdateProductRequest 产品可更新字段
type UpdateProductRequest struct {
	Name                     *string            `json:"name"`
	Category                 *string            `json:"category"`
	Brand                    *string            `json:"brand"`
	ModelNumber              *string            `json:"model_number"`
	MSRP                     *float64           `json:"msrp"`
	StandardWarrantyMonths   *int               `json:"standard_warranty_months"`
	PartsWarrantyMonths      *int               `json:"parts_warranty_months"`
	LaborWarrantyMonths      *int               `json:"labor_warranty_months"`
	ReplacementCostThreshold *float64           `json:"replacement_cost_threshold"`
	MaxClaimsPerYear         *int               `json:"max_claims_per_year"`
	CommonFailures           *entity.StringList `json:"common_failures"`
	AverageRepairCost        *float64           `json:"average_repair_cost"`
	Active                   *bool              `json:"active"`
}

func (s *ProductService) Update(ctx context.Context, id string, req *UpdateProductRequest) (*entity.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	if req.ReplacementCostThreshold != nil && (*req.ReplacementCostThreshold <= 0 || *req.ReplacementCostThreshold > 1) {
		return nil, invalidInput("replacement_cost_threshold must be in (0, 1]")
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.ModelNumber != nil {
		p.ModelNumber = *req.ModelNumber
	}
	if req.MSRP != nil {
		p.MSRP = *req.MSRP
	}
	if req.StandardWarrantyMonths != nil {
		p.StandardWarrantyMonths = *req.StandardWarrantyMonths
	}
	if req.PartsWarrantyMonths != nil {
		p.PartsWarrantyMonths = *req.PartsWarrantyMonths
	}
	if req.LaborWarrantyMonths != nil {
		p.LaborWarrantyMonths = *req.LaborWarrantyMonths
	}
	if req.ReplacementCostThreshold != nil {
		p.ReplacementCostThreshold = *req.ReplacementCostThreshold
	}
	if req.MaxClaimsPerYear != nil {
		p.MaxClaimsPerYear = *req.MaxClaimsPerYear
	}
	if req.CommonFailures != nil {
		p.CommonFailures = *req.CommonFailures
	}
	if req.AverageRepairCost != nil {
		p.AverageRepairCost = *req.AverageRepairCost
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return p, nil
}

// ProductStats 产品理赔统计
type ProductStats struct {
	TotalWarrantiesRegistered int            `json:"total_warranties_registered"`
	TotalClaims               int            `json:"total_claims"`
	ClaimsByIssueType         map[string]int `json:"claims_by_issue_type"`
	ClaimRate                 float64        `json:"claim_rate"`
}

// ProductDetail 产品详情：含理赔历史统计
type ProductDetail struct {
	entity.Product
	Stats ProductStats `json:"stats"`
}

// GetDetail 产品详情。理赔率 = 理赔数/保修数，保留2位小数。
func (s *ProductService) GetDetail(ctx context.Context, id string) (*ProductDetail, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	warranties, err := s.warrantyRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	claims, err := s.claimRepo.List(ctx, repository.ClaimListParams{ProductID: id})
	if err != nil {
		return nil, err
	}
	byIssue := make(map[string]int)
	for _, c := range claims {
		byIssue[c.IssueType]++
	}
	stats := ProductStats{
		TotalWarrantiesRegistered: len(warranties),
		TotalClaims:               len(claims),
		ClaimsByIssueType:         byIssue,
	}
	if len(warranties) > 0 {
		stats.ClaimRate = math.Round(float64(len(claims))/float64(len(warranties))*100) / 100
	}
	return &ProductDetail{Product: *p, Stats: stats}, nil
}

func (s *ProductService) List(ctx context.Context, params repository.ProductListParams) ([]entity.Product, error) {
	return s.repo.List(ctx, params)
}

// Categories 目录中去重排序后的品类列表
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
