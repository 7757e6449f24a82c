package entity

import (
	"time"
)

// CustomerTier 客户等级
const (
	CustomerTierStandard = "standard"
	CustomerTierPremium  = "premium"
	CustomerTierVIP      = "vip"
)

// Customer 客户实体
//
// TotalWarranties 和 TotalClaims 是派生计数，由保修登记和理赔创建
// 在同一事务内递增，客户本身不重新计算。
type Customer struct {
	ID               string    `json:"customer_id" gorm:"primaryKey;size:32;column:customer_id"`
	FirstName        string    `json:"first_name" gorm:"size:100;not null"`
	LastName         string    `json:"last_name" gorm:"size:100;not null"`
	Email            string    `json:"email" gorm:"size:100;not null;uniqueIndex"`
	Phone            string    `json:"phone" gorm:"size:20"`
	Address          Address   `json:"address" gorm:"type:jsonb"`
	PreferredContact string    `json:"preferred_contact" gorm:"size:20;default:email"`
	CustomerTier     string    `json:"customer_tier" gorm:"size:20;not null;default:standard"`
	RegistrationDate time.Time `json:"registration_date" gorm:"type:date"`
	TotalWarranties  int       `json:"total_warranties" gorm:"not null;default:0"`
	TotalClaims      int       `json:"total_claims" gorm:"not null;default:0"`
	Active           bool      `json:"active" gorm:"not null;default:true"`
	Notes            string    `json:"notes" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "wty_customers"
}

// ValidCustomerTier 判断客户等级是否合法
func ValidCustomerTier(tier string) bool {
	switch tier {
	case CustomerTierStandard, CustomerTierPremium, CustomerTierVIP:
		return true
	}
	return false
}
