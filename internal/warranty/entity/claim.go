package entity

import (
	"time"
)

// ClaimStatus 理赔状态
const (
	ClaimStatusPendingApproval = "pending_approval"
	ClaimStatusApproved        = "approved"
	ClaimStatusDenied          = "denied"
	ClaimStatusInRepair        = "in_repair"
	ClaimStatusCompleted       = "completed"
	ClaimStatusClosed          = "closed"
)

// IssueType 故障类型
const (
	IssueMechanicalFailure = "mechanical_failure"
	IssueElectricalFailure = "electrical_failure"
	IssueAccidentalDamage  = "accidental_damage"
	IssueCosmeticDamage    = "cosmetic_damage"
	IssueFoodSpoilage      = "food_spoilage"
	IssuePowerSurge        = "power_surge"
	IssueOther             = "other"
)

// ClaimPriority 理赔优先级
const (
	ClaimPriorityStandard = "standard"
	ClaimPriorityHigh     = "high"
	ClaimPriorityUrgent   = "urgent"
)

// claimTransitions 理赔状态机：合法迁移边的闭合表
var claimTransitions = map[string][]string{
	ClaimStatusPendingApproval: {ClaimStatusApproved, ClaimStatusDenied},
	ClaimStatusApproved:        {ClaimStatusInRepair, ClaimStatusDenied},
	ClaimStatusInRepair:        {ClaimStatusCompleted, ClaimStatusDenied},
	ClaimStatusCompleted:       {ClaimStatusClosed, ClaimStatusDenied},
	ClaimStatusDenied:          {},
	ClaimStatusClosed:          {},
}

// issueCoverageKeys issue_type → coverage_details键。
// "other" 不在表内：无对应保障项，始终视为覆盖。
var issueCoverageKeys = map[string]string{
	IssueMechanicalFailure: "mechanicalFailure",
	IssueElectricalFailure: "electricalFailure",
	IssueAccidentalDamage:  "accidentalDamage",
	IssueCosmeticDamage:    "cosmeticDamage",
	IssueFoodSpoilage:      "foodSpoilage",
	IssuePowerSurge:        "powerSurge",
}

// IssueTypes 全部合法故障类型
var IssueTypes = []string{
	IssueMechanicalFailure,
	IssueElectricalFailure,
	IssueAccidentalDamage,
	IssueCosmeticDamage,
	IssueFoodSpoilage,
	IssuePowerSurge,
	IssueOther,
}

// ValidIssueType 判断故障类型是否合法
func ValidIssueType(t string) bool {
	for _, v := range IssueTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidClaimStatus 判断理赔状态是否合法
func ValidClaimStatus(s string) bool {
	_, ok := claimTransitions[s]
	return ok
}

// CoverageKeyForIssue 返回故障类型对应的保障项键；无映射时 ok=false
func CoverageKeyForIssue(issueType string) (string, bool) {
	key, ok := issueCoverageKeys[issueType]
	return key, ok
}

// Claim 理赔单
type Claim struct {
	ID                        string     `json:"claim_id" gorm:"primaryKey;size:32;column:claim_id"`
	WarrantyID                string     `json:"warranty_id" gorm:"size:32;not null;index"`
	CustomerID                string     `json:"customer_id" gorm:"size:32;not null;index"`
	ProductID                 string     `json:"product_id" gorm:"size:32;index"`
	IssueType                 string     `json:"issue_type" gorm:"size:50;not null"`
	IssueCategory             string     `json:"issue_category" gorm:"size:100"`
	Description               string     `json:"description" gorm:"type:text;not null"`
	Priority                  string     `json:"priority" gorm:"size:20;not null;default:standard"`
	ClaimDate                 time.Time  `json:"claim_date" gorm:"type:date;not null"`
	Status                    string     `json:"status" gorm:"size:30;not null;default:pending_approval;index"`
	DeductibleCollected       float64    `json:"deductible_collected" gorm:"type:decimal(12,2);default:0"`
	EstimatedRepairCost       *float64   `json:"estimated_repair_cost" gorm:"type:decimal(12,2)"`
	ActualRepairCost          *float64   `json:"actual_repair_cost" gorm:"type:decimal(12,2)"`
	Resolution                string     `json:"resolution" gorm:"size:50"`
	ResolutionDate            *time.Time `json:"resolution_date" gorm:"type:date"`
	DenialReason              string     `json:"denial_reason" gorm:"size:200"`
	ServiceCenterID           string     `json:"service_center_id" gorm:"size:32;index"`
	TechnicianID              string     `json:"technician_id" gorm:"size:32"`
	RepairOrderID             string     `json:"repair_order_id" gorm:"size:32"`
	CustomerSatisfactionScore *int       `json:"customer_satisfaction_score"`
	Notes                     string     `json:"notes" gorm:"type:text"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Product  *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Warranty *Warranty `json:"warranty,omitempty" gorm:"foreignKey:WarrantyID"`
}

func (Claim) TableName() string {
	return "wty_claims"
}

// CanTransition 判断理赔能否迁移到目标状态
func (c *Claim) CanTransition(to string) bool {
	for _, next := range claimTransitions[c.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal 判断理赔是否处于终态
func (c *Claim) Terminal() bool {
	return len(claimTransitions[c.Status]) == 0
}

// ClaimAttachment 理赔附件（照片、购买凭证等），文件存于对象存储
type ClaimAttachment struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	ClaimID     string    `json:"claim_id" gorm:"size:32;not null;index"`
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	ObjectName  string    `json:"object_name" gorm:"size:512;not null"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type" gorm:"size:100"`
	UploadedBy  string    `json:"uploaded_by" gorm:"size:64"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ClaimAttachment) TableName() string {
	return "wty_claim_attachments"
}
