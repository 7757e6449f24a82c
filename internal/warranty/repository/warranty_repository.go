package repository

import (
	"context"
	"time"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"gorm.io/gorm"
)

type WarrantyRepository struct {
	db *gorm.DB
}

func NewWarrantyRepository(db *gorm.DB) *WarrantyRepository {
	return &WarrantyRepository{db: db}
}

// CreateWithCustomerCounter 登记保修并递增客户的保修计数，单事务完成
func (r *WarrantyRepository) CreateWithCustomerCounter(ctx context.Context, w *entity.Warranty) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(w).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Customer{}).
			Where("customer_id = ?", w.CustomerID).
			UpdateColumn("total_warranties", gorm.Expr("total_warranties + 1")).Error
	})
}

func (r *WarrantyRepository) FindByID(ctx context.Context, id string) (*entity.Warranty, error) {
	var w entity.Warranty
	if err := r.db.WithContext(ctx).Where("warranty_id = ?", id).First(&w).Error; err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *WarrantyRepository) FindByIDWithRelations(ctx context.Context, id string) (*entity.Warranty, error) {
	var w entity.Warranty
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Product").
		Where("warranty_id = ?", id).First(&w).Error
	if err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *WarrantyRepository) Update(ctx context.Context, w *entity.Warranty) error {
	return r.db.WithContext(ctx).Save(w).Error
}

type WarrantyListParams struct {
	Status     string
	CustomerID string
	ProductID  string
	Type       string
	// ExpiringWithinDays 只返回保障期在N天内到期的active保修
	ExpiringWithinDays int
}

func (r *WarrantyRepository) List(ctx context.Context, params WarrantyListParams) ([]entity.Warranty, error) {
	query := r.db.WithContext(ctx).Model(&entity.Warranty{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.Type != "" {
		query = query.Where("warranty_type = ?", params.Type)
	}
	if params.ExpiringWithinDays > 0 {
		now := time.Now()
		cutoff := now.AddDate(0, 0, params.ExpiringWithinDays)
		query = query.Where("status = ? AND coverage_end_date BETWEEN ? AND ?",
			entity.WarrantyStatusActive, now, cutoff)
	}
	var warranties []entity.Warranty
	if err := query.Order("created_at DESC").Find(&warranties).Error; err != nil {
		return nil, err
	}
	return warranties, nil
}

func (r *WarrantyRepository) ListByCustomer(ctx context.Context, customerID string) ([]entity.Warranty, error) {
	return r.List(ctx, WarrantyListParams{CustomerID: customerID})
}

func (r *WarrantyRepository) ListByProduct(ctx context.Context, productID string) ([]entity.Warranty, error) {
	return r.List(ctx, WarrantyListParams{ProductID: productID})
}

// NextCode 生成下一个保修编号
func (r *WarrantyRepository) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.Warranty{}, "warranty_id", WarrantyCodeTemplate)
}
