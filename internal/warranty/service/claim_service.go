package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// ClaimService 理赔服务：提交、审批、拒绝与关闭
type ClaimService struct {
	repo        *repository.ClaimRepository
	warrantySvc *WarrantyService
}

func NewClaimService(repo *repository.ClaimRepository, warrantySvc *WarrantyService) *ClaimService {
	return &ClaimService{repo: repo, warrantySvc: warrantySvc}
}

// FileClaimRequest 提交理赔请求
type FileClaimRequest struct {
	WarrantyID    string `json:"warranty_id" binding:"required"`
	CustomerID    string `json:"customer_id" binding:"required"`
	ProductID     string `json:"product_id"`
	IssueType     string `json:"issue_type" binding:"required"`
	IssueCategory string `json:"issue_category"`
	Description   string `json:"description" binding:"required"`
	Priority      string `json:"priority"`
	ClaimDate     string `json:"claim_date"`
	Notes         string `json:"notes"`
}

// File 提交理赔。保修存在、状态active、日期在保障期内是硬前置条件，
// 不满足时返回 NotCoveredError；年度上限与保障项留给审批环节裁量。
// 创建与保修/客户理赔计数递增在同一事务内完成。
func (s *ClaimService) File(ctx context.Context, req *FileClaimRequest) (*entity.Claim, error) {
	if req.WarrantyID == "" || req.CustomerID == "" || req.IssueType == "" || req.Description == "" {
		return nil, invalidInput("warranty_id, customer_id, issue_type, and description are required")
	}
	if !entity.ValidIssueType(req.IssueType) {
		return nil, invalidInput("invalid issue_type, must be one of: %s", strings.Join(entity.IssueTypes, ", "))
	}

	date := today()
	if req.ClaimDate != "" {
		var err error
		if date, err = parseDate("claim_date", req.ClaimDate); err != nil {
			return nil, err
		}
	}

	w, reason, err := s.warrantySvc.verifyBasic(ctx, req.WarrantyID, date)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, &NotCoveredError{Reason: reason}
	}

	productID := req.ProductID
	if productID == "" {
		productID = w.ProductID
	}
	priority := req.Priority
	if priority == "" {
		priority = entity.ClaimPriorityStandard
	}

	id, err := s.repo.NextCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate claim id: %w", err)
	}

	c := &entity.Claim{
		ID:            id,
		WarrantyID:    req.WarrantyID,
		CustomerID:    req.CustomerID,
		ProductID:     productID,
		IssueType:     req.IssueType,
		IssueCategory: req.IssueCategory,
		Description:   req.Description,
		Priority:      priority,
		ClaimDate:     date,
		Status:        entity.ClaimStatusPendingApproval,
		Notes:         req.Notes,
	}
	if err := s.repo.CreateWithCounters(ctx, c); err != nil {
		return nil, fmt.Errorf("file claim: %w", err)
	}
	return c, nil
}

// ApproveClaimRequest 审批请求
type ApproveClaimRequest struct {
	EstimatedRepairCost *float64 `json:"estimated_repair_cost"`
	ServiceCenterID     string   `json:"service_center_id"`
	TechnicianID        string   `json:"technician_id"`
	DeductibleCollected float64  `json:"deductible_collected"`
	Notes               string   `json:"notes"`
}

// Approve 审批通过，仅pending_approval状态可审批
func (s *ClaimService) Approve(ctx context.Context, id string, req *ApproveClaimRequest) (*entity.Claim, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "claim", id)
	}
	if c.Status != entity.ClaimStatusPendingApproval {
		return nil, invalidState("Claim is not pending approval (current: %s)", c.Status)
	}

	c.Status = entity.ClaimStatusApproved
	c.EstimatedRepairCost = req.EstimatedRepairCost
	c.ServiceCenterID = req.ServiceCenterID
	c.TechnicianID = req.TechnicianID
	c.DeductibleCollected = req.DeductibleCollected
	if req.Notes != "" {
		c.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Deny 拒绝理赔。任何非终态均可拒绝（含completed，针对事后发现的欺诈）。
func (s *ClaimService) Deny(ctx context.Context, id, reason, notes string) (*entity.Claim, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "claim", id)
	}
	if !c.CanTransition(entity.ClaimStatusDenied) {
		return nil, invalidState("claim in status '%s' cannot be denied", c.Status)
	}
	if reason == "" {
		reason = "Does not meet coverage criteria"
	}
	now := today()
	c.Status = entity.ClaimStatusDenied
	c.DenialReason = reason
	c.ResolutionDate = &now
	if notes != "" {
		c.Notes = notes
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Close 关闭理赔，仅completed状态可关闭；可附客户满意度评分（1–5）
func (s *ClaimService) Close(ctx context.Context, id string, satisfactionScore *int) (*entity.Claim, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "claim", id)
	}
	if !c.CanTransition(entity.ClaimStatusClosed) {
		return nil, invalidState("claim in status '%s' cannot be closed, must be completed first", c.Status)
	}
	if satisfactionScore != nil && (*satisfactionScore < 1 || *satisfactionScore > 5) {
		return nil, invalidInput("customer_satisfaction_score must be between 1 and 5")
	}
	c.Status = entity.ClaimStatusClosed
	if satisfactionScore != nil {
		c.CustomerSatisfactionScore = satisfactionScore
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateStatus 通用状态迁移，受状态机闭合表约束
func (s *ClaimService) UpdateStatus(ctx context.Context, id, status, notes, denialReason string) (*entity.Claim, error) {
	if status == "" {
		return nil, invalidInput("status is required")
	}
	if !entity.ValidClaimStatus(status) {
		return nil, invalidInput("invalid status: %s", status)
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "claim", id)
	}
	if !c.CanTransition(status) {
		return nil, invalidState("cannot transition claim from '%s' to '%s'", c.Status, status)
	}

	c.Status = status
	if notes != "" {
		c.Notes = notes
	}
	if status == entity.ClaimStatusDenied && denialReason != "" {
		c.DenialReason = denialReason
	}
	switch status {
	case entity.ClaimStatusCompleted, entity.ClaimStatusDenied, entity.ClaimStatusClosed:
		now := today()
		c.ResolutionDate = &now
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClaimService) Get(ctx context.Context, id string) (*entity.Claim, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "claim", id)
	}
	return c, nil
}

// GetDetail 理赔详情：预加载客户、产品与保修
func (s *ClaimService) GetDetail(ctx context.Context, id string) (*entity.Claim, error) {
	c, err := s.repo.FindByIDWithRelations(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "claim", id)
	}
	return c, nil
}

func (s *ClaimService) List(ctx context.Context, params repository.ClaimListParams) ([]entity.Claim, error) {
	return s.repo.List(ctx, params)
}
