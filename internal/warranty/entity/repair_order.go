package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// RepairOrderStatus 维修工单状态
const (
	RepairOrderStatusScheduled = "scheduled"
	RepairOrderStatusCompleted = "completed"
	RepairOrderStatusCancelled = "cancelled"
)

// RepairOrderType 维修工单类型
const (
	RepairTypeRepair      = "repair"
	RepairTypeReplacement = "replacement"
	RepairTypeInspection  = "inspection"
)

// DefaultWarrantyOnRepairDays 维修件自身的保修天数
const DefaultWarrantyOnRepairDays = 90

// repairOrderTransitions 维修工单状态机，终态不可离开
var repairOrderTransitions = map[string][]string{
	RepairOrderStatusScheduled: {RepairOrderStatusCompleted, RepairOrderStatusCancelled},
	RepairOrderStatusCompleted: {},
	RepairOrderStatusCancelled: {},
}

// PartUsed 维修用件明细
type PartUsed struct {
	PartNumber  string  `json:"part_number"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
	TotalCost   float64 `json:"total_cost"`
}

// PartsList 用件明细列表，存储为JSONB数组
type PartsList []PartUsed

func (l PartsList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]PartUsed{})
	}
	return json.Marshal(l)
}

func (l *PartsList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// RepairOrder 维修工单
//
// WarrantyID/CustomerID/ProductID 自理赔单反规范化，便于直接查询。
type RepairOrder struct {
	ID                        string     `json:"repair_order_id" gorm:"primaryKey;size:32;column:repair_order_id"`
	ClaimID                   string     `json:"claim_id" gorm:"size:32;not null;index"`
	WarrantyID                string     `json:"warranty_id" gorm:"size:32;index"`
	CustomerID                string     `json:"customer_id" gorm:"size:32;index"`
	ProductID                 string     `json:"product_id" gorm:"size:32"`
	ServiceCenterID           string     `json:"service_center_id" gorm:"size:32;not null;index"`
	TechnicianID              string     `json:"technician_id" gorm:"size:32;index"`
	Type                      string     `json:"type" gorm:"size:20;not null;default:repair"`
	Status                    string     `json:"status" gorm:"size:20;not null;default:scheduled;index"`
	ScheduledDate             time.Time  `json:"scheduled_date" gorm:"type:date;not null"`
	Diagnosis                 string     `json:"diagnosis" gorm:"type:text"`
	WorkPerformed             string     `json:"work_performed" gorm:"type:text"`
	PartsUsed                 PartsList  `json:"parts_used" gorm:"type:jsonb"`
	PartsCost                 float64    `json:"parts_cost" gorm:"type:decimal(12,2);default:0"`
	LaborHours                float64    `json:"labor_hours" gorm:"type:decimal(6,2);default:0"`
	LaborRate                 float64    `json:"labor_rate" gorm:"type:decimal(8,2);default:85"`
	LaborCost                 float64    `json:"labor_cost" gorm:"type:decimal(12,2);default:0"`
	TravelFee                 float64    `json:"travel_fee" gorm:"type:decimal(12,2);default:0"`
	TotalCost                 float64    `json:"total_cost" gorm:"type:decimal(12,2);default:0"`
	CoveredAmount             float64    `json:"covered_amount" gorm:"type:decimal(12,2);default:0"`
	DeductibleCollected       float64    `json:"deductible_collected" gorm:"type:decimal(12,2);default:0"`
	CustomerSignature         bool       `json:"customer_signature" gorm:"default:false"`
	WarrantyOnRepair          int        `json:"warranty_on_repair" gorm:"default:90"`
	TechnicianNotes           string     `json:"technician_notes" gorm:"type:text"`
	CustomerSatisfactionScore *int       `json:"customer_satisfaction_score"`
	CompletionDate            *time.Time `json:"completion_date" gorm:"type:date"`
	CancellationReason        string     `json:"cancellation_reason" gorm:"size:200"`
	FollowUpRequired          bool       `json:"follow_up_required" gorm:"default:false"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`

	Claim         *Claim         `json:"claim,omitempty" gorm:"foreignKey:ClaimID"`
	Customer      *Customer      `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Product       *Product       `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	ServiceCenter *ServiceCenter `json:"service_center,omitempty" gorm:"foreignKey:ServiceCenterID"`
	Technician    *Technician    `json:"technician,omitempty" gorm:"foreignKey:TechnicianID"`
}

func (RepairOrder) TableName() string {
	return "wty_repair_orders"
}

// CanTransition 判断工单能否迁移到目标状态
func (r *RepairOrder) CanTransition(to string) bool {
	for _, next := range repairOrderTransitions[r.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Open 判断工单是否仍在进行中
func (r *RepairOrder) Open() bool {
	return len(repairOrderTransitions[r.Status]) > 0
}
