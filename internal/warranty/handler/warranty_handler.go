package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
)

type WarrantyHandler struct {
	svc *service.WarrantyService
}

func NewWarrantyHandler(svc *service.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{svc: svc}
}

// Register 登记保修
// POST /api/v1/warranties
func (h *WarrantyHandler) Register(c *gin.Context) {
	var req service.RegisterWarrantyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	w, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, w)
}

// List 保修列表
// GET /api/v1/warranties?status=&customer_id=&product_id=&type=&expiring_within_days=
func (h *WarrantyHandler) List(c *gin.Context) {
	params := repository.WarrantyListParams{
		Status:     c.Query("status"),
		CustomerID: c.Query("customer_id"),
		ProductID:  c.Query("product_id"),
		Type:       c.Query("type"),
	}
	if v := c.Query("expiring_within_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			BadRequest(c, "expiring_within_days must be a positive integer")
			return
		}
		params.ExpiringWithinDays = days
	}
	warranties, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": warranties, "total": len(warranties)})
}

// Get 保修详情（含理赔历史）
// GET /api/v1/warranties/:id
func (h *WarrantyHandler) Get(c *gin.Context) {
	detail, err := h.svc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, detail)
}

// Update 更新保修
// PUT /api/v1/warranties/:id
func (h *WarrantyHandler) Update(c *gin.Context) {
	var req service.UpdateWarrantyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	w, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, w)
}

// Verify 覆盖核验，未覆盖返回200并附原因
// GET /api/v1/warranties/:id/verify?claim_date=&issue_type=
func (h *WarrantyHandler) Verify(c *gin.Context) {
	result, err := h.svc.Verify(c.Request.Context(), c.Param("id"), c.Query("claim_date"), c.Query("issue_type"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// Cancel 注销保修
// PUT /api/v1/warranties/:id/cancel
func (h *WarrantyHandler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// body可为空，reason缺省为Customer request
	_ = c.ShouldBindJSON(&req)
	w, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, w)
}
