package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
)

type CustomerHandler struct {
	svc *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// Register 登记新客户
// POST /api/v1/customers
func (h *CustomerHandler) Register(c *gin.Context) {
	var req service.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	customer, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, customer)
}

// List 客户列表
// GET /api/v1/customers?tier=&state=&active=
func (h *CustomerHandler) List(c *gin.Context) {
	params := repository.CustomerListParams{
		Tier:  c.Query("tier"),
		State: c.Query("state"),
	}
	if v := c.Query("active"); v != "" {
		active := v != "false"
		params.Active = &active
	}
	customers, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": customers, "total": len(customers)})
}

// Get 客户详情（含名下保修与理赔）
// GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	detail, err := h.svc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, detail)
}

// Update 更新客户
// PUT /api/v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	var req service.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	customer, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, customer)
}

// ListWarranties 客户名下保修
// GET /api/v1/customers/:id/warranties
func (h *CustomerHandler) ListWarranties(c *gin.Context) {
	warranties, err := h.svc.ListWarranties(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": warranties, "total": len(warranties)})
}

// ListClaims 客户名下理赔
// GET /api/v1/customers/:id/claims
func (h *CustomerHandler) ListClaims(c *gin.Context) {
	claims, err := h.svc.ListClaims(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": claims, "total": len(claims)})
}
