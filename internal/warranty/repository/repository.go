package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// translate 把gorm的未找到错误统一为 ErrNotFound
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Repositories 保修仓库集合
type Repositories struct {
	Customer      *CustomerRepository
	Product       *ProductRepository
	Warranty      *WarrantyRepository
	Claim         *ClaimRepository
	ServiceCenter *ServiceCenterRepository
	Technician    *TechnicianRepository
	RepairOrder   *RepairOrderRepository
}

// NewRepositories 创建保修仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Customer:      NewCustomerRepository(db),
		Product:       NewProductRepository(db),
		Warranty:      NewWarrantyRepository(db),
		Claim:         NewClaimRepository(db),
		ServiceCenter: NewServiceCenterRepository(db),
		Technician:    NewTechnicianRepository(db),
		RepairOrder:   NewRepairOrderRepository(db),
	}
}
