package service

import (
	"context"
	"fmt"
	"math"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// RepairOrderService 维修工单服务：派单、完工结算与取消
type RepairOrderService struct {
	repo       *repository.RepairOrderRepository
	claimRepo  *repository.ClaimRepository
	centerRepo *repository.ServiceCenterRepository
}

func NewRepairOrderService(
	repo *repository.RepairOrderRepository,
	claimRepo *repository.ClaimRepository,
	centerRepo *repository.ServiceCenterRepository,
) *RepairOrderService {
	return &RepairOrderService{repo: repo, claimRepo: claimRepo, centerRepo: centerRepo}
}

// CreateRepairOrderRequest 创建维修工单请求
type CreateRepairOrderRequest struct {
	ClaimID             string  `json:"claim_id" binding:"required"`
	ServiceCenterID     string  `json:"service_center_id" binding:"required"`
	TechnicianID        string  `json:"technician_id"`
	ScheduledDate       string  `json:"scheduled_date" binding:"required"`
	Type                string  `json:"type"`
	Diagnosis           string  `json:"diagnosis"`
	TravelFee           float64 `json:"travel_fee"`
	DeductibleCollected float64 `json:"deductible_collected"`
}

// Create 从理赔单开立维修工单。理赔须处于approved或pending_approval，
// 工单创建与理赔转入in_repair在同一事务内完成。
func (s *RepairOrderService) Create(ctx context.Context, req *CreateRepairOrderRequest) (*entity.RepairOrder, error) {
	if req.ClaimID == "" || req.ServiceCenterID == "" || req.ScheduledDate == "" {
		return nil, invalidInput("claim_id, service_center_id, and scheduled_date are required")
	}
	claim, err := s.claimRepo.FindByID(ctx, req.ClaimID)
	if err != nil {
		return nil, notFoundOr(err, "claim", req.ClaimID)
	}
	if claim.Status != entity.ClaimStatusApproved && claim.Status != entity.ClaimStatusPendingApproval {
		return nil, invalidState("Claim status '%s' does not allow repair order creation", claim.Status)
	}
	center, err := s.centerRepo.FindByID(ctx, req.ServiceCenterID)
	if err != nil {
		return nil, notFoundOr(err, "service center", req.ServiceCenterID)
	}
	scheduled, err := parseDate("scheduled_date", req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	orderType := req.Type
	if orderType == "" {
		orderType = entity.RepairTypeRepair
	}
	laborRate := center.LaborRate
	if laborRate == 0 {
		laborRate = entity.DefaultLaborRate
	}

	id, err := s.repo.NextCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate repair order id: %w", err)
	}

	o := &entity.RepairOrder{
		ID:                  id,
		ClaimID:             claim.ID,
		WarrantyID:          claim.WarrantyID,
		CustomerID:          claim.CustomerID,
		ProductID:           claim.ProductID,
		ServiceCenterID:     req.ServiceCenterID,
		TechnicianID:        req.TechnicianID,
		Type:                orderType,
		Status:              entity.RepairOrderStatusScheduled,
		ScheduledDate:       scheduled,
		Diagnosis:           req.Diagnosis,
		LaborRate:           laborRate,
		TravelFee:           req.TravelFee,
		DeductibleCollected: req.DeductibleCollected,
		WarrantyOnRepair:    entity.DefaultWarrantyOnRepairDays,
	}
	if err := s.repo.CreateWithClaimLink(ctx, o); err != nil {
		return nil, fmt.Errorf("create repair order: %w", err)
	}
	return o, nil
}

// CompleteRepairOrderRequest 完工请求。LaborHours缺省时回退到工单
// 预填的工时，再回退到1小时。
type CompleteRepairOrderRequest struct {
	WorkPerformed             string           `json:"work_performed" binding:"required"`
	PartsUsed                 entity.PartsList `json:"parts_used"`
	LaborHours                *float64         `json:"labor_hours"`
	TechnicianNotes           string           `json:"technician_notes"`
	Resolution                string           `json:"resolution"`
	CompletionDate            string           `json:"completion_date"`
	CustomerSatisfactionScore *int             `json:"customer_satisfaction_score"`
}

// Complete 完工结算：计算件费、工费与总费用，扣除免赔额得到承保金额，
// 同一事务内将关联理赔转入completed并回写实际维修费用。
func (s *RepairOrderService) Complete(ctx context.Context, id string, req *CompleteRepairOrderRequest) (*entity.RepairOrder, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "repair order", id)
	}
	if o.Status == entity.RepairOrderStatusCompleted {
		return nil, invalidState("Repair order is already completed")
	}
	if !o.CanTransition(entity.RepairOrderStatusCompleted) {
		return nil, invalidState("repair order in status '%s' cannot be completed", o.Status)
	}
	if req.WorkPerformed == "" {
		return nil, invalidInput("work_performed description is required to complete the order")
	}

	completionDate := today()
	if req.CompletionDate != "" {
		if completionDate, err = parseDate("completion_date", req.CompletionDate); err != nil {
			return nil, err
		}
	}

	partsCost := 0.0
	for _, p := range req.PartsUsed {
		if p.TotalCost != 0 {
			partsCost += p.TotalCost
			continue
		}
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		partsCost += p.UnitCost * float64(qty)
	}

	hours := 1.0
	if req.LaborHours != nil {
		hours = *req.LaborHours
	} else if o.LaborHours > 0 {
		hours = o.LaborHours
	}
	laborCost := hours * o.LaborRate
	totalCost := math.Round((partsCost+laborCost+o.TravelFee)*100) / 100
	coveredAmount := math.Max(0, totalCost-o.DeductibleCollected)

	o.Status = entity.RepairOrderStatusCompleted
	o.WorkPerformed = req.WorkPerformed
	o.PartsUsed = req.PartsUsed
	o.PartsCost = partsCost
	o.LaborHours = hours
	o.LaborCost = laborCost
	o.TotalCost = totalCost
	o.CoveredAmount = coveredAmount
	o.TechnicianNotes = req.TechnicianNotes
	o.CustomerSignature = true
	o.CompletionDate = &completionDate
	if req.CustomerSatisfactionScore != nil {
		o.CustomerSatisfactionScore = req.CustomerSatisfactionScore
	}

	resolution := req.Resolution
	if resolution == "" {
		resolution = "repair"
	}
	if err := s.repo.CompleteWithClaimWriteback(ctx, o, resolution); err != nil {
		return nil, fmt.Errorf("complete repair order: %w", err)
	}
	return o, nil
}

// Cancel 取消工单，仅scheduled状态可取消。关联理赔停留在in_repair，
// 由客服改派新工单或人工拒赔。
func (s *RepairOrderService) Cancel(ctx context.Context, id, reason string) (*entity.RepairOrder, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "repair order", id)
	}
	if !o.CanTransition(entity.RepairOrderStatusCancelled) {
		return nil, invalidState("repair order in status '%s' cannot be cancelled", o.Status)
	}
	if reason == "" {
		reason = "Cancelled"
	}
	o.Status = entity.RepairOrderStatusCancelled
	o.CancellationReason = reason
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateRepairOrderRequest 完工前可调整的排期字段
type UpdateRepairOrderRequest struct {
	TechnicianID  *string  `json:"technician_id"`
	ScheduledDate *string  `json:"scheduled_date"`
	Diagnosis     *string  `json:"diagnosis"`
	TravelFee     *float64 `json:"travel_fee"`
	LaborHours    *float64 `json:"labor_hours"`
	Notes         *string  `json:"technician_notes"`
}

func (s *RepairOrderService) Update(ctx context.Context, id string, req *UpdateRepairOrderRequest) (*entity.RepairOrder, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "repair order", id)
	}
	if !o.Open() {
		return nil, invalidState("repair order in status '%s' cannot be updated", o.Status)
	}
	if req.TechnicianID != nil {
		o.TechnicianID = *req.TechnicianID
	}
	if req.ScheduledDate != nil {
		scheduled, err := parseDate("scheduled_date", *req.ScheduledDate)
		if err != nil {
			return nil, err
		}
		o.ScheduledDate = scheduled
	}
	if req.Diagnosis != nil {
		o.Diagnosis = *req.Diagnosis
	}
	if req.TravelFee != nil {
		o.TravelFee = *req.TravelFee
	}
	if req.LaborHours != nil {
		o.LaborHours = *req.LaborHours
	}
	if req.Notes != nil {
		o.TechnicianNotes = *req.Notes
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *RepairOrderService) Get(ctx context.Context, id string) (*entity.RepairOrder, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "repair order", id)
	}
	return o, nil
}

// GetDetail 工单详情：预加载理赔、客户、产品、网点与技师
func (s *RepairOrderService) GetDetail(ctx context.Context, id string) (*entity.RepairOrder, error) {
	o, err := s.repo.FindByIDWithRelations(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "repair order", id)
	}
	return o, nil
}

func (s *RepairOrderService) List(ctx context.Context, params repository.RepairOrderListParams) ([]entity.RepairOrder, error) {
	return s.repo.List(ctx, params)
}
