package entity

import (
	"time"
)

// 产品策略参数默认值，供覆盖核验与换新报表使用
const (
	DefaultReplacementCostThreshold = 0.70
	DefaultMaxClaimsPerYear         = 2
)

// Product 产品目录条目
type Product struct {
	ID                       string     `json:"product_id" gorm:"primaryKey;size:32;column:product_id"`
	SKU                      string     `json:"sku" gorm:"size:50;not null;uniqueIndex"`
	Name                     string     `json:"name" gorm:"size:200;not null"`
	Category                 string     `json:"category" gorm:"size:50;not null;index"`
	Brand                    string     `json:"brand" gorm:"size:50;not null"`
	ModelNumber              string     `json:"model_number" gorm:"size:50;not null"`
	MSRP                     float64    `json:"msrp" gorm:"type:decimal(12,2);default:0"`
	StandardWarrantyMonths   int        `json:"standard_warranty_months" gorm:"default:12"`
	PartsWarrantyMonths      int        `json:"parts_warranty_months" gorm:"default:12"`
	LaborWarrantyMonths      int        `json:"labor_warranty_months" gorm:"default:12"`
	ReplacementCostThreshold float64    `json:"replacement_cost_threshold" gorm:"type:decimal(4,2);default:0.70"`
	MaxClaimsPerYear         int        `json:"max_claims_per_year" gorm:"default:2"`
	CommonFailures           StringList `json:"common_failures" gorm:"type:jsonb"`
	AverageRepairCost        float64    `json:"average_repair_cost" gorm:"type:decimal(12,2);default:0"`
	Active                   bool       `json:"active" gorm:"not null;default:true"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

func (Product) TableName() string {
	return "wty_products"
}
