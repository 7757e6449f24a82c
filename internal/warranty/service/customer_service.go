package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// CustomerService 客户管理
type CustomerService struct {
	repo         *repository.CustomerRepository
	warrantyRepo *repository.WarrantyRepository
	claimRepo    *repository.ClaimRepository
}

func NewCustomerService(
	repo *repository.CustomerRepository,
	warrantyRepo *repository.WarrantyRepository,
	claimRepo *repository.ClaimRepository,
) *CustomerService {
	return &CustomerService{repo: repo, warrantyRepo: warrantyRepo, claimRepo: claimRepo}
}

// RegisterCustomerRequest 登记客户请求
type RegisterCustomerRequest struct {
	FirstName        string          `json:"first_name" binding:"required"`
	LastName         string          `json:"last_name" binding:"required"`
	Email            string          `json:"email" binding:"required,email"`
	Phone            string          `json:"phone"`
	Address          *entity.Address `json:"address"`
	PreferredContact string          `json:"preferred_contact"`
	CustomerTier     string          `json:"customer_tier"`
	Notes            string          `json:"notes"`
}

// Register 登记新客户，邮箱须唯一
func (s *CustomerService) Register(ctx context.Context, req *RegisterCustomerRequest) (*entity.Customer, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return nil, invalidInput("first_name, last_name, and email are required")
	}
	tier := req.CustomerTier
	if tier == "" {
		tier = entity.CustomerTierStandard
	}
	if !entity.ValidCustomerTier(tier) {
		return nil, invalidInput("invalid customer_tier: %s", tier)
	}
	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, &ConflictError{Msg: "A customer with this email already exists"}
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	contact := req.PreferredContact
	if contact == "" {
		contact = "email"
	}
	id, err := s.repo.NextCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate customer id: %w", err)
	}

	c := &entity.Customer{
		ID:               id,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		PreferredContact: contact,
		CustomerTier:     tier,
		RegistrationDate: today(),
		Active:           true,
		Notes:            req.Notes,
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("register customer: %w", err)
	}
	return c, nil
}

// UpdateCustomerRequest 客户可更新字段
type UpdateCustomerRequest struct {
	FirstName        *string         `json:"first_name"`
	LastName         *string         `json:"last_name"`
	Phone            *string         `json:"phone"`
	Address          *entity.Address `json:"address"`
	PreferredContact *string         `json:"preferred_contact"`
	CustomerTier     *string         `json:"customer_tier"`
	Active           *bool           `json:"active"`
	Notes            *string         `json:"notes"`
}

func (s *CustomerService) Update(ctx context.Context, id string, req *UpdateCustomerRequest) (*entity.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer", id)
	}
	if req.CustomerTier != nil && !entity.ValidCustomerTier(*req.CustomerTier) {
		return nil, invalidInput("invalid customer_tier: %s", *req.CustomerTier)
	}
	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.PreferredContact != nil {
		c.PreferredContact = *req.PreferredContact
	}
	if req.CustomerTier != nil {
		c.CustomerTier = *req.CustomerTier
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer", id)
	}
	return c, nil
}

// CustomerDetail 客户详情：含名下保修与理赔
type CustomerDetail struct {
	entity.Customer
	Warranties []entity.Warranty `json:"warranties"`
	Claims     []entity.Claim    `json:"claims"`
}

func (s *CustomerService) GetDetail(ctx context.Context, id string) (*CustomerDetail, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer", id)
	}
	warranties, err := s.warrantyRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	claims, err := s.claimRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CustomerDetail{Customer: *c, Warranties: warranties, Claims: claims}, nil
}

func (s *CustomerService) List(ctx context.Context, params repository.CustomerListParams) ([]entity.Customer, error) {
	return s.repo.List(ctx, params)
}

// ListWarranties 客户名下全部保修
func (s *CustomerService) ListWarranties(ctx context.Context, id string) ([]entity.Warranty, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "customer", id)
	}
	return s.warrantyRepo.ListByCustomer(ctx, id)
}

// ListClaims 客户名下全部理赔
func (s *CustomerService) ListClaims(ctx context.Context, id string) ([]entity.Claim, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "customer", id)
	}
	return s.claimRepo.ListByCustomer(ctx, id)
}
