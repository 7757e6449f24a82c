package repository

import (
	"context"
	"time"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"gorm.io/gorm"
)

type RepairOrderRepository struct {
	db *gorm.DB
}

func NewRepairOrderRepository(db *gorm.DB) *RepairOrderRepository {
	return &RepairOrderRepository{db: db}
}

// CreateWithClaimLink 创建维修工单，并在同一事务内把父理赔单
// 置为in_repair且写入工单引用。
func (r *RepairOrderRepository) CreateWithClaimLink(ctx context.Context, o *entity.RepairOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Claim{}).
			Where("claim_id = ?", o.ClaimID).
			Updates(map[string]interface{}{
				"status":          entity.ClaimStatusInRepair,
				"repair_order_id": o.ID,
				"updated_at":      time.Now(),
			}).Error
	})
}

// CompleteWithClaimWriteback 保存完工后的工单，并在同一事务内把父理赔单
// 置为completed、回写实际维修费用与处理结论。
func (r *RepairOrderRepository) CompleteWithClaimWriteback(ctx context.Context, o *entity.RepairOrder, resolution string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(o).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Claim{}).
			Where("claim_id = ?", o.ClaimID).
			Updates(map[string]interface{}{
				"status":             entity.ClaimStatusCompleted,
				"actual_repair_cost": o.TotalCost,
				"resolution":         resolution,
				"resolution_date":    o.CompletionDate,
				"updated_at":         time.Now(),
			}).Error
	})
}

func (r *RepairOrderRepository) FindByID(ctx context.Context, id string) (*entity.RepairOrder, error) {
	var o entity.RepairOrder
	if err := r.db.WithContext(ctx).Where("repair_order_id = ?", id).First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *RepairOrderRepository) FindByIDWithRelations(ctx context.Context, id string) (*entity.RepairOrder, error) {
	var o entity.RepairOrder
	err := r.db.WithContext(ctx).
		Preload("Claim").
		Preload("Customer").
		Preload("Product").
		Preload("ServiceCenter").
		Preload("Technician").
		Where("repair_order_id = ?", id).First(&o).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *RepairOrderRepository) Update(ctx context.Context, o *entity.RepairOrder) error {
	return r.db.WithContext(ctx).Save(o).Error
}

type RepairOrderListParams struct {
	Status          string
	ServiceCenterID string
	TechnicianID    string
	CustomerID      string
	// OpenOnly 只返回未完工未取消的工单
	OpenOnly bool
}

// List 按创建时间倒序返回维修工单（最新在前，列表契约）
func (r *RepairOrderRepository) List(ctx context.Context, params RepairOrderListParams) ([]entity.RepairOrder, error) {
	query := r.db.WithContext(ctx).Model(&entity.RepairOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ServiceCenterID != "" {
		query = query.Where("service_center_id = ?", params.ServiceCenterID)
	}
	if params.TechnicianID != "" {
		query = query.Where("technician_id = ?", params.TechnicianID)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.OpenOnly {
		query = query.Where("status NOT IN ?", []string{
			entity.RepairOrderStatusCompleted, entity.RepairOrderStatusCancelled,
		})
	}
	var orders []entity.RepairOrder
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *RepairOrderRepository) ListByCenter(ctx context.Context, centerID string) ([]entity.RepairOrder, error) {
	return r.List(ctx, RepairOrderListParams{ServiceCenterID: centerID})
}

func (r *RepairOrderRepository) ListByTechnician(ctx context.Context, technicianID string) ([]entity.RepairOrder, error) {
	return r.List(ctx, RepairOrderListParams{TechnicianID: technicianID})
}

// NextCode 生成下一个维修工单编号
func (r *RepairOrderRepository) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.RepairOrder{}, "repair_order_id", RepairOrderCodeTemplate)
}
