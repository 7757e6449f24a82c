package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.db.WithContext(ctx).Where("customer_id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

type CustomerListParams struct {
	Tier   string
	State  string
	Active *bool
}

func (r *CustomerRepository) List(ctx context.Context, params CustomerListParams) ([]entity.Customer, error) {
	query := r.db.WithContext(ctx).Model(&entity.Customer{})
	if params.Tier != "" {
		query = query.Where("customer_tier = ?", params.Tier)
	}
	if params.State != "" {
		query = query.Where("address->>'state' = ?", params.State)
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	var customers []entity.Customer
	if err := query.Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) Count(ctx context.Context, onlyActive bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Customer{})
	if onlyActive {
		query = query.Where("active = true")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// NextCode 生成下一个客户编号
func (r *CustomerRepository) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.Customer{}, "customer_id", CustomerCodeTemplate)
}
