package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// dashboardCacheKey Redis缓存键；仪表盘聚合全表，短TTL挡住高频刷新
const (
	dashboardCacheKey = "warranty:report:dashboard"
	dashboardCacheTTL = 30 * time.Second
)

// ReportService 经营报表：仪表盘、理赔分析、到期预测、网点绩效与换新候选
type ReportService struct {
	repos *repository.Repositories
	rdb   *redis.Client
}

func NewReportService(repos *repository.Repositories, rdb *redis.Client) *ReportService {
	return &ReportService{repos: repos, rdb: rdb}
}

// ClaimsOverview 理赔概览
type ClaimsOverview struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	ByIssueType     map[string]int `json:"by_issue_type"`
	ByResolution    map[string]int `json:"by_resolution"`
	AvgRepairCost   float64        `json:"avg_repair_cost"`
	TotalRepairCost float64        `json:"total_repair_cost"`
}

// WarrantyOverview 保修概览
type WarrantyOverview struct {
	Total               int            `json:"total"`
	ByStatus            map[string]int `json:"by_status"`
	ByType              map[string]int `json:"by_type"`
	TotalPremiumRevenue float64        `json:"total_premium_revenue"`
}

// Dashboard 仪表盘汇总
type Dashboard struct {
	AsOf       time.Time        `json:"as_of"`
	Claims     ClaimsOverview   `json:"claims"`
	Warranties WarrantyOverview `json:"warranties"`
	Alerts     struct {
		OpenClaims             int `json:"open_claims"`
		WarrantiesExpiringSoon int `json:"warranties_expiring_soon"`
		OpenRepairOrders       int `json:"open_repair_orders"`
		PendingApproval        int `json:"pending_approval"`
	} `json:"alerts"`
	Customers struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	} `json:"customers"`
	ServiceCenters struct {
		Total                int `json:"total"`
		Active               int `json:"active"`
		AvailableTechnicians int `json:"available_technicians"`
	} `json:"service_centers"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Dashboard 生成仪表盘。结果在Redis缓存30秒，Redis不可用时直接现算。
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var d Dashboard
			if json.Unmarshal(cached, &d) == nil {
				return &d, nil
			}
		}
	}

	claims, err := s.repos.Claim.List(ctx, repository.ClaimListParams{})
	if err != nil {
		return nil, err
	}
	warranties, err := s.repos.Warranty.List(ctx, repository.WarrantyListParams{})
	if err != nil {
		return nil, err
	}
	expiring, err := s.repos.Warranty.List(ctx, repository.WarrantyListParams{
		Status:             entity.WarrantyStatusActive,
		ExpiringWithinDays: 30,
	})
	if err != nil {
		return nil, err
	}
	openOrders, err := s.repos.RepairOrder.List(ctx, repository.RepairOrderListParams{OpenOnly: true})
	if err != nil {
		return nil, err
	}
	customers, err := s.repos.Customer.List(ctx, repository.CustomerListParams{})
	if err != nil {
		return nil, err
	}
	centers, err := s.repos.ServiceCenter.List(ctx, repository.ServiceCenterListParams{})
	if err != nil {
		return nil, err
	}
	availableTechs, err := s.repos.Technician.CountAvailable(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		AsOf:       time.Now(),
		Claims:     claimsOverview(claims),
		Warranties: warrantyOverview(warranties),
	}
	openClaims := 0
	for i := range claims {
		if !claims[i].Terminal() && claims[i].Status != entity.ClaimStatusCompleted {
			openClaims++
		}
	}
	d.Alerts.OpenClaims = openClaims
	d.Alerts.WarrantiesExpiringSoon = len(expiring)
	d.Alerts.OpenRepairOrders = len(openOrders)
	d.Alerts.PendingApproval = d.Claims.ByStatus[entity.ClaimStatusPendingApproval]
	d.Customers.Total = len(customers)
	for _, c := range customers {
		if c.Active {
			d.Customers.Active++
		}
	}
	d.ServiceCenters.Total = len(centers)
	for _, c := range centers {
		if c.Active {
			d.ServiceCenters.Active++
		}
	}
	d.ServiceCenters.AvailableTechnicians = int(availableTechs)

	if s.rdb != nil {
		if payload, err := json.Marshal(d); err == nil {
			s.rdb.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL)
		}
	}
	return d, nil
}

func claimsOverview(claims []entity.Claim) ClaimsOverview {
	o := ClaimsOverview{
		Total:        len(claims),
		ByStatus:     make(map[string]int),
		ByIssueType:  make(map[string]int),
		ByResolution: make(map[string]int),
	}
	costCount := 0
	for _, c := range claims {
		o.ByStatus[c.Status]++
		o.ByIssueType[c.IssueType]++
		if c.Resolution != "" {
			o.ByResolution[c.Resolution]++
		}
		if c.ActualRepairCost != nil {
			o.TotalRepairCost += *c.ActualRepairCost
			costCount++
		}
	}
	o.TotalRepairCost = round2(o.TotalRepairCost)
	if costCount > 0 {
		o.AvgRepairCost = round2(o.TotalRepairCost / float64(costCount))
	}
	return o
}

func warrantyOverview(warranties []entity.Warranty) WarrantyOverview {
	o := WarrantyOverview{
		Total:    len(warranties),
		ByStatus: make(map[string]int),
		ByType:   make(map[string]int),
	}
	for _, w := range warranties {
		o.ByStatus[w.Status]++
		o.ByType[w.WarrantyType]++
		o.TotalPremiumRevenue += w.PremiumPaid
	}
	o.TotalPremiumRevenue = round2(o.TotalPremiumRevenue)
	return o
}

// ClaimsSummary 理赔分析报表
type ClaimsSummary struct {
	Period struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"period"`
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	ByIssueType     map[string]int `json:"by_issue_type"`
	ByIssueCategory map[string]int `json:"by_issue_category"`
	ByMonth         map[string]int `json:"by_month"`
	ByProductID     map[string]int `json:"by_product_id"`
	Financials      struct {
		TotalRepairCost           float64 `json:"total_repair_cost"`
		TotalDeductiblesCollected float64 `json:"total_deductibles_collected"`
		AvgRepairCost             float64 `json:"avg_repair_cost"`
		NetClaimCost              float64 `json:"net_claim_cost"`
	} `json:"financials"`
	Satisfaction struct {
		AvgScore      *float64 `json:"avg_score"`
		ResponseCount int      `json:"response_count"`
	} `json:"satisfaction"`
}

// ClaimsSummaryReport 理赔分析。from/to按claim_date过滤（含端点），
// 费用统计只计completed理赔的实际维修费。
func (s *ReportService) ClaimsSummaryReport(ctx context.Context, from, to string) (*ClaimsSummary, error) {
	var fromDate, toDate time.Time
	var err error
	if from != "" {
		if fromDate, err = parseDate("from", from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if toDate, err = parseDate("to", to); err != nil {
			return nil, err
		}
	}

	claims, err := s.repos.Claim.List(ctx, repository.ClaimListParams{})
	if err != nil {
		return nil, err
	}
	filtered := claims[:0:0]
	for _, c := range claims {
		if from != "" && c.ClaimDate.Before(fromDate) {
			continue
		}
		if to != "" && c.ClaimDate.After(toDate) {
			continue
		}
		filtered = append(filtered, c)
	}

	r := &ClaimsSummary{
		Total:           len(filtered),
		ByStatus:        make(map[string]int),
		ByIssueType:     make(map[string]int),
		ByIssueCategory: make(map[string]int),
		ByMonth:         make(map[string]int),
		ByProductID:     make(map[string]int),
	}
	r.Period.From = "all"
	r.Period.To = "all"
	if from != "" {
		r.Period.From = from
	}
	if to != "" {
		r.Period.To = to
	}

	var totalCost, totalDeductibles float64
	completedCount := 0
	scoreSum, scoreCount := 0, 0
	for _, c := range filtered {
		r.ByStatus[c.Status]++
		r.ByIssueType[c.IssueType]++
		category := c.IssueCategory
		if category == "" {
			category = "unspecified"
		}
		r.ByIssueCategory[category]++
		r.ByMonth[c.ClaimDate.Format("2006-01")]++
		r.ByProductID[c.ProductID]++
		totalDeductibles += c.DeductibleCollected
		if c.Status == entity.ClaimStatusCompleted {
			completedCount++
			if c.ActualRepairCost != nil {
				totalCost += *c.ActualRepairCost
			}
			if c.CustomerSatisfactionScore != nil {
				scoreSum += *c.CustomerSatisfactionScore
				scoreCount++
			}
		}
	}
	r.Financials.TotalRepairCost = round2(totalCost)
	r.Financials.TotalDeductiblesCollected = round2(totalDeductibles)
	if completedCount > 0 {
		r.Financials.AvgRepairCost = round2(totalCost / float64(completedCount))
	}
	r.Financials.NetClaimCost = round2(totalCost - totalDeductibles)
	r.Satisfaction.ResponseCount = scoreCount
	if scoreCount > 0 {
		avg := math.Round(float64(scoreSum)/float64(scoreCount)*10) / 10
		r.Satisfaction.AvgScore = &avg
	}
	return r, nil
}

// ExpiringWarranty 到期预测行
type ExpiringWarranty struct {
	WarrantyID          string    `json:"warranty_id"`
	WarrantyType        string    `json:"warranty_type"`
	CoverageEndDate     time.Time `json:"coverage_end_date"`
	DaysUntilExpiration int       `json:"days_until_expiration"`
	CustomerName        string    `json:"customer_name"`
	CustomerEmail       string    `json:"customer_email"`
	ProductName         string    `json:"product_name"`
	ProductCategory     string    `json:"product_category"`
}

// WarrantyExpirationReport 到期预测，按剩余天数升序
func (s *ReportService) WarrantyExpirationReport(ctx context.Context, days int) ([]ExpiringWarranty, error) {
	if days <= 0 {
		days = 90
	}
	warranties, err := s.repos.Warranty.List(ctx, repository.WarrantyListParams{
		Status:             entity.WarrantyStatusActive,
		ExpiringWithinDays: days,
	})
	if err != nil {
		return nil, err
	}

	now := today()
	rows := make([]ExpiringWarranty, 0, len(warranties))
	for _, w := range warranties {
		row := ExpiringWarranty{
			WarrantyID:          w.ID,
			WarrantyType:        w.WarrantyType,
			CoverageEndDate:     w.CoverageEndDate,
			DaysUntilExpiration: int(math.Ceil(w.CoverageEndDate.Sub(now).Hours() / 24)),
			CustomerName:        "Unknown",
			ProductName:         "Unknown",
		}
		if customer, err := s.repos.Customer.FindByID(ctx, w.CustomerID); err == nil {
			row.CustomerName = customer.FirstName + " " + customer.LastName
			row.CustomerEmail = customer.Email
		}
		if product, err := s.repos.Product.FindByID(ctx, w.ProductID); err == nil {
			row.ProductName = product.Name
			row.ProductCategory = product.Category
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DaysUntilExpiration < rows[j].DaysUntilExpiration
	})
	return rows, nil
}

// CenterPerformance 网点绩效行
type CenterPerformance struct {
	ServiceCenterID      string  `json:"service_center_id"`
	Name                 string  `json:"name"`
	State                string  `json:"state"`
	Rating               float64 `json:"rating"`
	TotalOrders          int     `json:"total_orders"`
	CompletedOrders      int     `json:"completed_orders"`
	ActiveOrders         int     `json:"active_orders"`
	AvgCompletionDays    float64 `json:"avg_completion_days"`
	TotalRevenue         float64 `json:"total_revenue"`
	TechnicianCount      int     `json:"technician_count"`
	AvailableTechnicians int     `json:"available_technicians"`
}

// ServiceCenterPerformanceReport 活跃网点KPI：完工量、平均完工天数与营收
func (s *ReportService) ServiceCenterPerformanceReport(ctx context.Context) ([]CenterPerformance, error) {
	centers, err := s.repos.ServiceCenter.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]CenterPerformance, 0, len(centers))
	for _, c := range centers {
		orders, err := s.repos.RepairOrder.ListByCenter(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		techs, err := s.repos.Technician.ListByCenter(ctx, c.ID)
		if err != nil {
			return nil, err
		}

		row := CenterPerformance{
			ServiceCenterID: c.ID,
			Name:            c.Name,
			State:           c.Address.State,
			Rating:          c.Rating,
			TotalOrders:     len(orders),
			TechnicianCount: len(techs),
		}
		for _, t := range techs {
			if t.Available {
				row.AvailableTechnicians++
			}
		}

		var revenue, completionDaysSum float64
		timedCount := 0
		for _, o := range orders {
			switch {
			case o.Status == entity.RepairOrderStatusCompleted:
				row.CompletedOrders++
				revenue += o.TotalCost
				if o.CompletionDate != nil {
					days := math.Ceil(o.CompletionDate.Sub(o.ScheduledDate).Hours() / 24)
					completionDaysSum += math.Max(0, days)
					timedCount++
				}
			case o.Open():
				row.ActiveOrders++
			}
		}
		row.TotalRevenue = round2(revenue)
		if timedCount > 0 {
			row.AvgCompletionDays = math.Round(completionDaysSum/float64(timedCount)*10) / 10
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReplacementCandidate 换新候选行
type ReplacementCandidate struct {
	ClaimID                 string  `json:"claim_id"`
	Status                  string  `json:"status"`
	CustomerName            string  `json:"customer_name"`
	ProductName             string  `json:"product_name"`
	ProductCategory         string  `json:"product_category"`
	PurchasePrice           float64 `json:"purchase_price"`
	RepairEstimate          float64 `json:"repair_estimate"`
	ReplacementThresholdPct int     `json:"replacement_threshold_pct"`
	RepairToPurchaseRatio   int     `json:"repair_to_purchase_ratio"`
	Recommendation          string  `json:"recommendation"`
}

// ReplacementCandidatesReport 维修费逼近换新阈值的在途理赔。
// 维修估价缺省回退到产品平均维修费，购买价缺省回退到MSRP；
// 比值≥阈值入选，≥0.90建议换新，否则建议评估。
func (s *ReportService) ReplacementCandidatesReport(ctx context.Context) ([]ReplacementCandidate, error) {
	claims, err := s.repos.Claim.List(ctx, repository.ClaimListParams{})
	if err != nil {
		return nil, err
	}

	candidates := make([]ReplacementCandidate, 0)
	for _, c := range claims {
		switch c.Status {
		case entity.ClaimStatusPendingApproval, entity.ClaimStatusApproved, entity.ClaimStatusInRepair:
		default:
			continue
		}
		product, err := s.repos.Product.FindByID(ctx, c.ProductID)
		if err != nil {
			continue
		}
		w, err := s.repos.Warranty.FindByID(ctx, c.WarrantyID)
		if err != nil {
			continue
		}

		repairEstimate := product.AverageRepairCost
		if c.EstimatedRepairCost != nil {
			repairEstimate = *c.EstimatedRepairCost
		}
		purchasePrice := w.PurchasePrice
		if purchasePrice == 0 {
			purchasePrice = product.MSRP
		}
		if purchasePrice == 0 {
			continue
		}
		threshold := product.ReplacementCostThreshold
		if threshold == 0 {
			threshold = entity.DefaultReplacementCostThreshold
		}

		ratio := repairEstimate / purchasePrice
		if ratio < threshold {
			continue
		}
		candidate := ReplacementCandidate{
			ClaimID:                 c.ID,
			Status:                  c.Status,
			CustomerName:            "Unknown",
			ProductName:             product.Name,
			ProductCategory:         product.Category,
			PurchasePrice:           purchasePrice,
			RepairEstimate:          repairEstimate,
			ReplacementThresholdPct: int(math.Round(threshold * 100)),
			RepairToPurchaseRatio:   int(math.Round(ratio * 100)),
			Recommendation:          "evaluate",
		}
		if ratio >= 0.90 {
			candidate.Recommendation = "replace"
		}
		if customer, err := s.repos.Customer.FindByID(ctx, c.CustomerID); err == nil {
			candidate.CustomerName = customer.FirstName + " " + customer.LastName
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}
