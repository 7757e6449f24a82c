package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
)

type ServiceCenterHandler struct {
	svc         *service.ServiceCenterService
	dispatchSvc *service.DispatchService
}

func NewServiceCenterHandler(svc *service.ServiceCenterService, dispatchSvc *service.DispatchService) *ServiceCenterHandler {
	return &ServiceCenterHandler{svc: svc, dispatchSvc: dispatchSvc}
}

// Create 登记服务网点
// POST /api/v1/service-centers
func (h *ServiceCenterHandler) Create(c *gin.Context) {
	var req service.CreateServiceCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	center, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, center)
}

// List 网点列表，按评分倒序
// GET /api/v1/service-centers?state=&specialization=&brand=&active=
func (h *ServiceCenterHandler) List(c *gin.Context) {
	params := repository.ServiceCenterListParams{
		State:          c.Query("state"),
		Specialization: c.Query("specialization"),
		Brand:          c.Query("brand"),
	}
	if v := c.Query("active"); v != "" {
		active := v != "false"
		params.Active = &active
	}
	centers, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": centers, "total": len(centers)})
}

// Get 网点详情（含技师名册与在途工单）
// GET /api/v1/service-centers/:id
func (h *ServiceCenterHandler) Get(c *gin.Context) {
	detail, err := h.svc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, detail)
}

// Update 更新网点
// PUT /api/v1/service-centers/:id
func (h *ServiceCenterHandler) Update(c *gin.Context) {
	var req service.UpdateServiceCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	center, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, center)
}

// ListTechnicians 网点技师
// GET /api/v1/service-centers/:id/technicians?available=
func (h *ServiceCenterHandler) ListTechnicians(c *gin.Context) {
	techs, err := h.svc.ListTechnicians(c.Request.Context(), c.Param("id"), c.Query("available") == "true")
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": techs, "total": len(techs)})
}

// Recommend 派单推荐
// GET /api/v1/service-centers/dispatch/recommend?product_category=&brand=&state=&limit=
func (h *ServiceCenterHandler) Recommend(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}
	candidates, err := h.dispatchSvc.Recommend(
		c.Request.Context(),
		c.Query("product_category"),
		c.Query("brand"),
		c.Query("state"),
		limit,
	)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": candidates, "total": len(candidates)})
}
