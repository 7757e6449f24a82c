package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// WarrantyStatus 保修状态
const (
	WarrantyStatusActive    = "active"
	WarrantyStatusCancelled = "cancelled"
	WarrantyStatusExpired   = "expired"
)

// CoverageDetails 保障项映射：issue键 → 是否覆盖
//
// 键沿用投保数据的camelCase格式（mechanicalFailure等），
// 与理赔issue_type通过 CoverageKeyForIssue 对应。
type CoverageDetails map[string]bool

func (d CoverageDetails) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *CoverageDetails) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, d)
}

// DefaultCoverageDetails 标准保障计划：机械/电气故障覆盖，其余不覆盖
func DefaultCoverageDetails() CoverageDetails {
	return CoverageDetails{
		"mechanicalFailure": true,
		"electricalFailure": true,
		"accidentalDamage":  false,
		"cosmeticDamage":    false,
		"foodSpoilage":      false,
		"powerSurge":        false,
	}
}

// Warranty 保修合同
//
// 不变式：CoverageStartDate ≤ CoverageEndDate；cancelled 状态不可回到 active。
// ClaimCount 由理赔创建事务递增。
type Warranty struct {
	ID                 string          `json:"warranty_id" gorm:"primaryKey;size:32;column:warranty_id"`
	CustomerID         string          `json:"customer_id" gorm:"size:32;not null;index"`
	ProductID          string          `json:"product_id" gorm:"size:32;not null;index"`
	SerialNumber       string          `json:"serial_number" gorm:"size:100;not null"`
	PurchaseDate       time.Time       `json:"purchase_date" gorm:"type:date;not null"`
	PurchasePrice      float64         `json:"purchase_price" gorm:"type:decimal(12,2);default:0"`
	Retailer           string          `json:"retailer" gorm:"size:100"`
	RetailerStoreID    string          `json:"retailer_store_id" gorm:"size:50"`
	WarrantyType       string          `json:"warranty_type" gorm:"size:50;not null"`
	CoverageStartDate  time.Time       `json:"coverage_start_date" gorm:"type:date;not null"`
	CoverageEndDate    time.Time       `json:"coverage_end_date" gorm:"type:date;not null"`
	Deductible         float64         `json:"deductible" gorm:"type:decimal(12,2);default:0"`
	MaxCoverageAmount  float64         `json:"max_coverage_amount" gorm:"type:decimal(12,2);default:0"`
	CoverageDetails    CoverageDetails `json:"coverage_details" gorm:"type:jsonb"`
	PremiumPaid        float64         `json:"premium_paid" gorm:"type:decimal(12,2);default:0"`
	Status             string          `json:"status" gorm:"size:20;not null;default:active;index"`
	CancellationDate   *time.Time      `json:"cancellation_date" gorm:"type:date"`
	CancellationReason string          `json:"cancellation_reason" gorm:"size:200"`
	ClaimCount         int             `json:"claim_count" gorm:"not null;default:0"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Product  *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (Warranty) TableName() string {
	return "wty_warranties"
}

// InCoverageWindow 判断日期是否在保障期内（闭区间）
func (w *Warranty) InCoverageWindow(date time.Time) bool {
	return !date.Before(w.CoverageStartDate) && !date.After(w.CoverageEndDate)
}
