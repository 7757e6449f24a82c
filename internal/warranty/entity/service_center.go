package entity

import (
	"time"
)

// ServiceCenterType 服务网点类型
const (
	ServiceCenterTypeAuthorized = "authorized"
	ServiceCenterTypeFactory    = "factory"
	ServiceCenterTypeThirdParty = "third_party"
)

// DefaultLaborRate 默认工时费率（美元/小时）
const DefaultLaborRate = 85.00

// ServiceCenter 服务网点
type ServiceCenter struct {
	ID                string     `json:"service_center_id" gorm:"primaryKey;size:32;column:service_center_id"`
	Name              string     `json:"name" gorm:"size:200;not null"`
	Type              string     `json:"type" gorm:"size:20;not null;default:authorized"`
	ContactName       string     `json:"contact_name" gorm:"size:100;not null"`
	Phone             string     `json:"phone" gorm:"size:20;not null"`
	Email             string     `json:"email" gorm:"size:100"`
	Address           Address    `json:"address" gorm:"type:jsonb"`
	Specializations   StringList `json:"specializations" gorm:"type:jsonb"`
	Brands            StringList `json:"brands" gorm:"type:jsonb"`
	Certifications    StringList `json:"certifications" gorm:"type:jsonb"`
	TechnicianCount   int        `json:"technician_count" gorm:"default:0"`
	Rating            float64    `json:"rating" gorm:"type:decimal(3,1);default:0"`
	AvgResponseDays   float64    `json:"avg_response_days" gorm:"type:decimal(5,1);default:0"`
	AvgCompletionDays float64    `json:"avg_completion_days" gorm:"type:decimal(5,1);default:0"`
	LaborRate         float64    `json:"labor_rate" gorm:"type:decimal(8,2);default:85"`
	CoverageRadius    int        `json:"coverage_radius" gorm:"default:50"`
	Active            bool       `json:"active" gorm:"not null;default:true"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (ServiceCenter) TableName() string {
	return "wty_service_centers"
}
