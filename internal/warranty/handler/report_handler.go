package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Dashboard 经营仪表盘
// GET /api/v1/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, d)
}

// ClaimsSummary 理赔分析
// GET /api/v1/reports/claims-summary?from=&to=
func (h *ReportHandler) ClaimsSummary(c *gin.Context) {
	summary, err := h.svc.ClaimsSummaryReport(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, summary)
}

// WarrantyExpiration 到期预测
// GET /api/v1/reports/warranty-expiration?days=
func (h *ReportHandler) WarrantyExpiration(c *gin.Context) {
	days := 0
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			BadRequest(c, "days must be a positive integer")
			return
		}
		days = n
	}
	rows, err := h.svc.WarrantyExpirationReport(c.Request.Context(), days)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": rows, "total": len(rows)})
}

// ServiceCenterPerformance 网点绩效
// GET /api/v1/reports/service-center-performance
func (h *ReportHandler) ServiceCenterPerformance(c *gin.Context) {
	rows, err := h.svc.ServiceCenterPerformanceReport(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": rows, "total": len(rows)})
}

// ReplacementCandidates 换新候选
// GET /api/v1/reports/replacement-candidates
func (h *ReportHandler) ReplacementCandidates(c *gin.Context) {
	rows, err := h.svc.ReplacementCandidatesReport(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": rows, "total": len(rows)})
}
