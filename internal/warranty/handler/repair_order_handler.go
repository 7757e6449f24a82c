package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
)

type RepairOrderHandler struct {
	svc *service.RepairOrderService
}

func NewRepairOrderHandler(svc *service.RepairOrderService) *RepairOrderHandler {
	return &RepairOrderHandler{svc: svc}
}

// Create 从理赔单开立维修工单
// POST /api/v1/repair-orders
func (h *RepairOrderHandler) Create(c *gin.Context) {
	var req service.CreateRepairOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	order, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, order)
}

// List 工单列表
// GET /api/v1/repair-orders?status=&service_center_id=&technician_id=&customer_id=&open=
func (h *RepairOrderHandler) List(c *gin.Context) {
	params := repository.RepairOrderListParams{
		Status:          c.Query("status"),
		ServiceCenterID: c.Query("service_center_id"),
		TechnicianID:    c.Query("technician_id"),
		CustomerID:      c.Query("customer_id"),
		OpenOnly:        c.Query("open") == "true",
	}
	orders, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": orders, "total": len(orders)})
}

// Get 工单详情
// GET /api/v1/repair-orders/:id
func (h *RepairOrderHandler) Get(c *gin.Context) {
	order, err := h.svc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, order)
}

// Update 调整排期
// PUT /api/v1/repair-orders/:id
func (h *RepairOrderHandler) Update(c *gin.Context) {
	var req service.UpdateRepairOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	order, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, order)
}

// Complete 完工结算，联动理赔转completed
// PUT /api/v1/repair-orders/:id/complete
func (h *RepairOrderHandler) Complete(c *gin.Context) {
	var req service.CompleteRepairOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	order, err := h.svc.Complete(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, order)
}

// Cancel 取消工单
// PUT /api/v1/repair-orders/:id/cancel
func (h *RepairOrderHandler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	order, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, order)
}
