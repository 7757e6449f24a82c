package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// TechnicianService 技师管理
type TechnicianService struct {
	repo       *repository.TechnicianRepository
	centerRepo *repository.ServiceCenterRepository
	roRepo     *repository.RepairOrderRepository
}

func NewTechnicianService(
	repo *repository.TechnicianRepository,
	centerRepo *repository.ServiceCenterRepository,
	roRepo *repository.RepairOrderRepository,
) *TechnicianService {
	return &TechnicianService{repo: repo, centerRepo: centerRepo, roRepo: roRepo}
}

// CreateTechnicianRequest 登记技师请求
type CreateTechnicianRequest struct {
	FirstName       string            `json:"first_name" binding:"required"`
	LastName        string            `json:"last_name" binding:"required"`
	ServiceCenterID string            `json:"service_center_id" binding:"required"`
	EmployeeID      string            `json:"employee_id"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email"`
	Specializations entity.StringList `json:"specializations"`
	CertifiedBrands entity.StringList `json:"certified_brands"`
	YearsExperience int               `json:"years_experience"`
}

// Create 登记新技师，所属网点必须已存在；同步递增网点技师数
func (s *TechnicianService) Create(ctx context.Context, req *CreateTechnicianRequest) (*entity.Technician, error) {
	if req.FirstName == "" || req.LastName == "" || req.ServiceCenterID == "" {
		return nil, invalidInput("first_name, last_name, and service_center_id are required")
	}
	center, err := s.centerRepo.FindByID(ctx, req.ServiceCenterID)
	if err != nil {
		return nil, notFoundOr(err, "service center", req.ServiceCenterID)
	}

	id, err := s.repo.NextCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate technician id: %w", err)
	}
	tech := &entity.Technician{
		ID:              id,
		ServiceCenterID: req.ServiceCenterID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		EmployeeID:      req.EmployeeID,
		Phone:           req.Phone,
		Email:           req.Email,
		Specializations: req.Specializations,
		CertifiedBrands: req.CertifiedBrands,
		YearsExperience: req.YearsExperience,
		Available:       true,
	}
	if err := s.repo.Create(ctx, tech); err != nil {
		return nil, fmt.Errorf("create technician: %w", err)
	}
	center.TechnicianCount++
	if err := s.centerRepo.Update(ctx, center); err != nil {
		return nil, err
	}
	return tech, nil
}

// UpdateTechnicianRequest 技师可更新字段
type UpdateTechnicianRequest struct {
	FirstName       *string            `json:"first_name"`
	LastName        *string            `json:"last_name"`
	EmployeeID      *string            `json:"employee_id"`
	Phone           *string            `json:"phone"`
	Email           *string            `json:"email"`
	Specializations *entity.StringList `json:"specializations"`
	CertifiedBrands *entity.StringList `json:"certified_brands"`
	YearsExperience *int               `json:"years_experience"`
	Rating          *float64           `json:"rating"`
}

func (s *TechnicianService) Update(ctx context.Context, id string, req *UpdateTechnicianRequest) (*entity.Technician, error) {
	tech, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "technician", id)
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		return nil, invalidInput("rating must be between 0 and 5")
	}
	if req.FirstName != nil {
		tech.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		tech.LastName = *req.LastName
	}
	if req.EmployeeID != nil {
		tech.EmployeeID = *req.EmployeeID
	}
	if req.Phone != nil {
		tech.Phone = *req.Phone
	}
	if req.Email != nil {
		tech.Email = *req.Email
	}
	if req.Specializations != nil {
		tech.Specializations = *req.Specializations
	}
	if req.CertifiedBrands != nil {
		tech.CertifiedBrands = *req.CertifiedBrands
	}
	if req.YearsExperience != nil {
		tech.YearsExperience = *req.YearsExperience
	}
	if req.Rating != nil {
		tech.Rating = *req.Rating
	}
	if err := s.repo.Update(ctx, tech); err != nil {
		return nil, err
	}
	return tech, nil
}

// SetAvailability 设置技师可接单状态；available为nil时翻转当前状态
func (s *TechnicianService) SetAvailability(ctx context.Context, id string, available *bool) (*entity.Technician, error) {
	tech, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "technician", id)
	}
	if available != nil {
		tech.Available = *available
	} else {
		tech.Available = !tech.Available
	}
	if err := s.repo.Update(ctx, tech); err != nil {
		return nil, err
	}
	return tech, nil
}

func (s *TechnicianService) Get(ctx context.Context, id string) (*entity.Technician, error) {
	tech, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "technician", id)
	}
	return tech, nil
}

// TechnicianDetail 技师详情：含所属网点与进行中的工单
type TechnicianDetail struct {
	entity.Technician
	ActiveOrders []entity.RepairOrder `json:"active_orders"`
}

func (s *TechnicianService) GetDetail(ctx context.Context, id string) (*TechnicianDetail, error) {
	tech, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "technician", id)
	}
	if center, err := s.centerRepo.FindByID(ctx, tech.ServiceCenterID); err == nil {
		tech.ServiceCenter = center
	}
	orders, err := s.roRepo.ListByTechnician(ctx, id)
	if err != nil {
		return nil, err
	}
	active := make([]entity.RepairOrder, 0, len(orders))
	for _, o := range orders {
		if o.Open() {
			active = append(active, o)
		}
	}
	return &TechnicianDetail{Technician: *tech, ActiveOrders: active}, nil
}

func (s *TechnicianService) List(ctx context.Context, params repository.TechnicianListParams) ([]entity.Technician, error) {
	return s.repo.List(ctx, params)
}
