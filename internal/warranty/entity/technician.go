package entity

import (
	"time"
)

// Technician 维修技师，隶属于唯一服务网点
type Technician struct {
	ID              string     `json:"technician_id" gorm:"primaryKey;size:32;column:technician_id"`
	ServiceCenterID string     `json:"service_center_id" gorm:"size:32;not null;index"`
	FirstName       string     `json:"first_name" gorm:"size:100;not null"`
	LastName        string     `json:"last_name" gorm:"size:100;not null"`
	EmployeeID      string     `json:"employee_id" gorm:"size:50"`
	Phone           string     `json:"phone" gorm:"size:20"`
	Email           string     `json:"email" gorm:"size:100"`
	Specializations StringList `json:"specializations" gorm:"type:jsonb"`
	CertifiedBrands StringList `json:"certified_brands" gorm:"type:jsonb"`
	YearsExperience int        `json:"years_experience" gorm:"default:0"`
	Rating          float64    `json:"rating" gorm:"type:decimal(3,1);default:0"`
	ActiveOrders    int        `json:"active_orders" gorm:"default:0"`
	TotalCompleted  int        `json:"total_completed" gorm:"default:0"`
	Available       bool       `json:"available" gorm:"not null;default:true"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	ServiceCenter *ServiceCenter `json:"service_center,omitempty" gorm:"foreignKey:ServiceCenterID"`
}

func (Technician) TableName() string {
	return "wty_technicians"
}
