package repository

import (
	"context"
	"encoding/json"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"gorm.io/gorm"
)

type ServiceCenterRepository struct {
	db *gorm.DB
}

func NewServiceCenterRepository(db *gorm.DB) *ServiceCenterRepository {
	return &ServiceCenterRepository{db: db}
}

func (r *ServiceCenterRepository) Create(ctx context.Context, s *entity.ServiceCenter) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServiceCenterRepository) FindByID(ctx context.Context, id string) (*entity.ServiceCenter, error) {
	var s entity.ServiceCenter
	if err := r.db.WithContext(ctx).Where("service_center_id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *ServiceCenterRepository) Update(ctx context.Context, s *entity.ServiceCenter) error {
	return r.db.WithContext(ctx).Save(s).Error
}

type ServiceCenterListParams struct {
	State          string
	Specialization string
	Brand          string
	Active         *bool
}

// jsonArrayContains 构造JSONB数组包含查询的参数
func jsonArrayContains(value string) string {
	b, _ := json.Marshal([]string{value})
	return string(b)
}

// List 按评分倒序返回服务网点
func (r *ServiceCenterRepository) List(ctx context.Context, params ServiceCenterListParams) ([]entity.ServiceCenter, error) {
	query := r.db.WithContext(ctx).Model(&entity.ServiceCenter{})
	if params.State != "" {
		query = query.Where("address->>'state' = ?", params.State)
	}
	if params.Specialization != "" {
		query = query.Where("specializations @> ?", jsonArrayContains(params.Specialization))
	}
	if params.Brand != "" {
		query = query.Where("brands @> ?", jsonArrayContains(params.Brand))
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	var centers []entity.ServiceCenter
	if err := query.Order("rating DESC").Find(&centers).Error; err != nil {
		return nil, err
	}
	return centers, nil
}

func (r *ServiceCenterRepository) ListActive(ctx context.Context) ([]entity.ServiceCenter, error) {
	active := true
	return r.List(ctx, ServiceCenterListParams{Active: &active})
}

// NextCode 生成下一个服务网点编号
func (r *ServiceCenterRepository) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.ServiceCenter{}, "service_center_id", ServiceCenterCodeTemplate)
}
