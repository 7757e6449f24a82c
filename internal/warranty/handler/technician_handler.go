package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
)

type TechnicianHandler struct {
	svc *service.TechnicianService
}

func NewTechnicianHandler(svc *service.TechnicianService) *TechnicianHandler {
	return &TechnicianHandler{svc: svc}
}

// Create 登记技师
// POST /api/v1/technicians
func (h *TechnicianHandler) Create(c *gin.Context) {
	var req service.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	tech, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, tech)
}

// List 技师列表，按评分倒序
// GET /api/v1/technicians?service_center_id=&specialization=&brand=&available=
func (h *TechnicianHandler) List(c *gin.Context) {
	params := repository.TechnicianListParams{
		ServiceCenterID: c.Query("service_center_id"),
		Specialization:  c.Query("specialization"),
		Brand:           c.Query("brand"),
		AvailableOnly:   c.Query("available") == "true",
	}
	techs, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": techs, "total": len(techs)})
}

// Get 技师详情（含所属网点与在途工单）
// GET /api/v1/technicians/:id
func (h *TechnicianHandler) Get(c *gin.Context) {
	detail, err := h.svc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, detail)
}

// Update 更新技师
// PUT /api/v1/technicians/:id
func (h *TechnicianHandler) Update(c *gin.Context) {
	var req service.UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	tech, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, tech)
}

// SetAvailability 设置可接单状态，body缺省时翻转
// PUT /api/v1/technicians/:id/availability
func (h *TechnicianHandler) SetAvailability(c *gin.Context) {
	var req struct {
		Available *bool `json:"available"`
	}
	_ = c.ShouldBindJSON(&req)
	tech, err := h.svc.SetAvailability(c.Request.Context(), c.Param("id"), req.Available)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, tech)
}
