package repository

import (
	"context"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"gorm.io/gorm"
)

type TechnicianRepository struct {
	db *gorm.DB
}

func NewTechnicianRepository(db *gorm.DB) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

func (r *TechnicianRepository) Create(ctx context.Context, t *entity.Technician) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TechnicianRepository) FindByID(ctx context.Context, id string) (*entity.Technician, error) {
	var t entity.Technician
	if err := r.db.WithContext(ctx).Where("technician_id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TechnicianRepository) Update(ctx context.Context, t *entity.Technician) error {
	return r.db.WithContext(ctx).Save(t).Error
}

type TechnicianListParams struct {
	ServiceCenterID string
	Specialization  string
	Brand           string
	AvailableOnly   bool
}

// List 按评分倒序返回技师
func (r *TechnicianRepository) List(ctx context.Context, params TechnicianListParams) ([]entity.Technician, error) {
	query := r.db.WithContext(ctx).Model(&entity.Technician{})
	if params.ServiceCenterID != "" {
		query = query.Where("service_center_id = ?", params.ServiceCenterID)
	}
	if params.Specialization != "" {
		query = query.Where("specializations @> ?", jsonArrayContains(params.Specialization))
	}
	if params.Brand != "" {
		query = query.Where("certified_brands @> ?", jsonArrayContains(params.Brand))
	}
	if params.AvailableOnly {
		query = query.Where("available = true")
	}
	var technicians []entity.Technician
	if err := query.Order("rating DESC").Find(&technicians).Error; err != nil {
		return nil, err
	}
	return technicians, nil
}

func (r *TechnicianRepository) ListByCenter(ctx context.Context, centerID string) ([]entity.Technician, error) {
	return r.List(ctx, TechnicianListParams{ServiceCenterID: centerID})
}

// CountAvailableByCenter 统计网点当前可用技师数
func (r *TechnicianRepository) CountAvailableByCenter(ctx context.Context, centerID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Technician{}).
		Where("service_center_id = ? AND available = true", centerID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// CountAvailable 统计全部可用技师数
func (r *TechnicianRepository) CountAvailable(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Technician{}).
		Where("available = true").
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// NextCode 生成下一个技师编号
func (r *TechnicianRepository) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.Technician{}, "technician_id", TechnicianCodeTemplate)
}
