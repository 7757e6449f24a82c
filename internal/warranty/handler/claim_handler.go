package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
)

type ClaimHandler struct {
	svc           *service.ClaimService
	attachmentSvc *service.AttachmentService
}

func NewClaimHandler(svc *service.ClaimService, attachmentSvc *service.AttachmentService) *ClaimHandler {
	return &ClaimHandler{svc: svc, attachmentSvc: attachmentSvc}
}

// File 提交理赔
// POST /api/v1/claims
func (h *ClaimHandler) File(c *gin.Context) {
	var req service.FileClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	claim, err := h.svc.File(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, claim)
}

// List 理赔列表
// GET /api/v1/claims?status=&customer_id=&warranty_id=&issue_type=&open=
func (h *ClaimHandler) List(c *gin.Context) {
	params := repository.ClaimListParams{
		Status:     c.Query("status"),
		CustomerID: c.Query("customer_id"),
		WarrantyID: c.Query("warranty_id"),
		IssueType:  c.Query("issue_type"),
		OpenOnly:   c.Query("open") == "true",
	}
	claims, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": claims, "total": len(claims)})
}

// Get 理赔详情
// GET /api/v1/claims/:id
func (h *ClaimHandler) Get(c *gin.Context) {
	claim, err := h.svc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, claim)
}

// Approve 审批通过
// PUT /api/v1/claims/:id/approve
func (h *ClaimHandler) Approve(c *gin.Context) {
	var req service.ApproveClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	claim, err := h.svc.Approve(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, claim)
}

// Deny 拒绝理赔
// PUT /api/v1/claims/:id/deny
func (h *ClaimHandler) Deny(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)
	claim, err := h.svc.Deny(c.Request.Context(), c.Param("id"), req.Reason, req.Notes)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, claim)
}

// Close 关闭理赔
// PUT /api/v1/claims/:id/close
func (h *ClaimHandler) Close(c *gin.Context) {
	var req struct {
		CustomerSatisfactionScore *int `json:"customer_satisfaction_score"`
	}
	_ = c.ShouldBindJSON(&req)
	claim, err := h.svc.Close(c.Request.Context(), c.Param("id"), req.CustomerSatisfactionScore)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, claim)
}

// UpdateStatus 通用状态迁移
// PUT /api/v1/claims/:id/status
func (h *ClaimHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status       string `json:"status" binding:"required"`
		Notes        string `json:"notes"`
		DenialReason string `json:"denial_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	claim, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Notes, req.DenialReason)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, claim)
}

// --- 附件 ---

// UploadAttachment 上传理赔附件
// POST /api/v1/claims/:id/attachments
func (h *ClaimHandler) UploadAttachment(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentSvc.Upload(
		c.Request.Context(),
		c.Param("id"),
		header.Filename,
		header.Header.Get("Content-Type"),
		GetUserID(c),
		file,
		header.Size,
	)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, attachment)
}

// ListAttachments 理赔附件列表
// GET /api/v1/claims/:id/attachments
func (h *ClaimHandler) ListAttachments(c *gin.Context) {
	attachments, err := h.attachmentSvc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": attachments, "total": len(attachments)})
}

// DownloadAttachment 下载附件
// GET /api/v1/claims/:id/attachments/:attachment_id
func (h *ClaimHandler) DownloadAttachment(c *gin.Context) {
	reader, attachment, err := h.attachmentSvc.Download(c.Request.Context(), c.Param("attachment_id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", "attachment; filename=\""+attachment.FileName+"\"")
	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	if attachment.FileSize > 0 {
		c.Header("Content-Length", strconv.FormatInt(attachment.FileSize, 10))
	}
	io.Copy(c.Writer, reader)
}
