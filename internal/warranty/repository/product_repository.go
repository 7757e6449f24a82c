package repository

import (
	"context"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	if err := r.db.WithContext(ctx).Where("product_id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

type ProductListParams struct {
	Category string
	Brand    string
	Active   *bool
}

func (r *ProductRepository) List(ctx context.Context, params ProductListParams) ([]entity.Product, error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Brand != "" {
		query = query.Where("LOWER(brand) = LOWER(?)", params.Brand)
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	var products []entity.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Categories 返回去重后按字母排序的产品类别
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// NextCode 生成下一个产品编号
func (r *ProductRepository) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.Product{}, "product_id", ProductCodeTemplate)
}
