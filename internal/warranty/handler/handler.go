package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
)

// Handlers 处理器集合
type Handlers struct {
	Customer      *CustomerHandler
	Product       *ProductHandler
	Warranty      *WarrantyHandler
	Claim         *ClaimHandler
	ServiceCenter *ServiceCenterHandler
	Technician    *TechnicianHandler
	RepairOrder   *RepairOrderHandler
	Report        *ReportHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Customer:      NewCustomerHandler(svc.Customer),
		Product:       NewProductHandler(svc.Product),
		Warranty:      NewWarrantyHandler(svc.Warranty),
		Claim:         NewClaimHandler(svc.Claim, svc.Attachment),
		ServiceCenter: NewServiceCenterHandler(svc.ServiceCenter, svc.Dispatch),
		Technician:    NewTechnicianHandler(svc.Technician),
		RepairOrder:   NewRepairOrderHandler(svc.RepairOrder),
		Report:        NewReportHandler(svc.Report),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应，HTTP状态码取业务码前三位
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleError 按服务层错误分类映射HTTP响应
func HandleError(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	var invalidInput *service.InvalidInputError
	var invalidState *service.InvalidStateError
	var conflict *service.ConflictError
	var notCovered *service.NotCoveredError
	switch {
	case errors.As(err, &notFound):
		Error(c, 40400, notFound.Error())
	case errors.As(err, &invalidInput):
		Error(c, 40000, invalidInput.Error())
	case errors.As(err, &invalidState):
		Error(c, 40010, invalidState.Error())
	case errors.As(err, &conflict):
		Error(c, 40900, conflict.Error())
	case errors.As(err, &notCovered):
		Error(c, 42200, notCovered.Error())
	default:
		Error(c, 50000, err.Error())
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
