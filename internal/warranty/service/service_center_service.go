package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// ServiceCenterService 服务网点管理
type ServiceCenterService struct {
	repo     *repository.ServiceCenterRepository
	techRepo *repository.TechnicianRepository
	roRepo   *repository.RepairOrderRepository
}

func NewServiceCenterService(
	repo *repository.ServiceCenterRepository,
	techRepo *repository.TechnicianRepository,
	roRepo *repository.RepairOrderRepository,
) *ServiceCenterService {
	return &ServiceCenterService{repo: repo, techRepo: techRepo, roRepo: roRepo}
}

// CreateServiceCenterRequest 登记服务网点请求
type CreateServiceCenterRequest struct {
	Name            string            `json:"name" binding:"required"`
	Type            string            `json:"type"`
	ContactName     string            `json:"contact_name" binding:"required"`
	Phone           string            `json:"phone" binding:"required"`
	Email           string            `json:"email"`
	Address         *entity.Address   `json:"address" binding:"required"`
	Specializations entity.StringList `json:"specializations"`
	Brands          entity.StringList `json:"brands"`
	Certifications  entity.StringList `json:"certifications"`
	LaborRate       float64           `json:"labor_rate"`
	CoverageRadius  int               `json:"coverage_radius"`
}

func (s *ServiceCenterService) Create(ctx context.Context, req *CreateServiceCenterRequest) (*entity.ServiceCenter, error) {
	if req.Name == "" || req.ContactName == "" || req.Phone == "" || req.Address == nil {
		return nil, invalidInput("name, contact_name, phone, and address are required")
	}
	centerType := req.Type
	if centerType == "" {
		centerType = entity.ServiceCenterTypeAuthorized
	}
	laborRate := req.LaborRate
	if laborRate == 0 {
		laborRate = entity.DefaultLaborRate
	}
	coverageRadius := req.CoverageRadius
	if coverageRadius == 0 {
		coverageRadius = 50
	}

	id, err := s.repo.NextCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate service center id: %w", err)
	}
	center := &entity.ServiceCenter{
		ID:              id,
		Name:            req.Name,
		Type:            centerType,
		ContactName:     req.ContactName,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         *req.Address,
		Specializations: req.Specializations,
		Brands:          req.Brands,
		Certifications:  req.Certifications,
		LaborRate:       laborRate,
		CoverageRadius:  coverageRadius,
		Active:          true,
	}
	if err := s.repo.Create(ctx, center); err != nil {
		return nil, fmt.Errorf("create service center: %w", err)
	}
	return center, nil
}

// UpdateServiceCenterRequest 网点可更新字段
type UpdateServiceCenterRequest struct {
	Name            *string            `json:"name"`
	Type            *string            `json:"type"`
	ContactName     *string            `json:"contact_name"`
	Phone           *string            `json:"phone"`
	Email           *string            `json:"email"`
	Address         *entity.Address    `json:"address"`
	Specializations *entity.StringList `json:"specializations"`
	Brands          *entity.StringList `json:"brands"`
	Certifications  *entity.StringList `json:"certifications"`
	Rating          *float64           `json:"rating"`
	AvgResponseDays *float64           `json:"avg_response_days"`
	LaborRate       *float64           `json:"labor_rate"`
	CoverageRadius  *int               `json:"coverage_radius"`
	Active          *bool              `json:"active"`
}

func (s *ServiceCenterService) Update(ctx context.Context, id string, req *UpdateServiceCenterRequest) (*entity.ServiceCenter, error) {
	center, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "service center", id)
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		return nil, invalidInput("rating must be between 0 and 5")
	}
	if req.Name != nil {
		center.Name = *req.Name
	}
	if req.Type != nil {
		center.Type = *req.Type
	}
	if req.ContactName != nil {
		center.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		center.Phone = *req.Phone
	}
	if req.Email != nil {
		center.Email = *req.Email
	}
	if req.Address != nil {
		center.Address = *req.Address
	}
	if req.Specializations != nil {
		center.Specializations = *req.Specializations
	}
	if req.Brands != nil {
		center.Brands = *req.Brands
	}
	if req.Certifications != nil {
		center.Certifications = *req.Certifications
	}
	if req.Rating != nil {
		center.Rating = *req.Rating
	}
	if req.AvgResponseDays != nil {
		center.AvgResponseDays = *req.AvgResponseDays
	}
	if req.LaborRate != nil {
		center.LaborRate = *req.LaborRate
	}
	if req.CoverageRadius != nil {
		center.CoverageRadius = *req.CoverageRadius
	}
	if req.Active != nil {
		center.Active = *req.Active
	}
	if err := s.repo.Update(ctx, center); err != nil {
		return nil, err
	}
	return center, nil
}

func (s *ServiceCenterService) Get(ctx context.Context, id string) (*entity.ServiceCenter, error) {
	center, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "service center", id)
	}
	return center, nil
}

// ServiceCenterDetail 网点详情：含技师名册与进行中的工单
type ServiceCenterDetail struct {
	entity.ServiceCenter
	Technicians  []entity.Technician  `json:"technicians"`
	ActiveOrders []entity.RepairOrder `json:"active_orders"`
}

func (s *ServiceCenterService) GetDetail(ctx context.Context, id string) (*ServiceCenterDetail, error) {
	center, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "service center", id)
	}
	techs, err := s.techRepo.ListByCenter(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.roRepo.ListByCenter(ctx, id)
	if err != nil {
		return nil, err
	}
	active := make([]entity.RepairOrder, 0, len(orders))
	for _, o := range orders {
		if o.Open() {
			active = append(active, o)
		}
	}
	return &ServiceCenterDetail{ServiceCenter: *center, Technicians: techs, ActiveOrders: active}, nil
}

func (s *ServiceCenterService) List(ctx context.Context, params repository.ServiceCenterListParams) ([]entity.ServiceCenter, error) {
	return s.repo.List(ctx, params)
}

// ListTechnicians 网点在册技师，availableOnly时仅返回可接单的
func (s *ServiceCenterService) ListTechnicians(ctx context.Context, centerID string, availableOnly bool) ([]entity.Technician, error) {
	if _, err := s.repo.FindByID(ctx, centerID); err != nil {
		return nil, notFoundOr(err, "service center", centerID)
	}
	techs, err := s.techRepo.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if !availableOnly {
		return techs, nil
	}
	available := make([]entity.Technician, 0, len(techs))
	for _, t := range techs {
		if t.Available {
			available = append(available, t)
		}
	}
	return available, nil
}
