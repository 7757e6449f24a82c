package repository

import (
	"context"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"gorm.io/gorm"
)

type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// CreateWithCounters 创建理赔单并递增保修与客户的理赔计数。
// 三条写入在同一事务内，避免计数部分落盘。
func (r *ClaimRepository) CreateWithCounters(ctx context.Context, c *entity.Claim) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Warranty{}).
			Where("warranty_id = ?", c.WarrantyID).
			UpdateColumn("claim_count", gorm.Expr("claim_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Customer{}).
			Where("customer_id = ?", c.CustomerID).
			UpdateColumn("total_claims", gorm.Expr("total_claims + 1")).Error
	})
}

func (r *ClaimRepository) FindByID(ctx context.Context, id string) (*entity.Claim, error) {
	var c entity.Claim
	if err := r.db.WithContext(ctx).Where("claim_id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ClaimRepository) FindByIDWithRelations(ctx context.Context, id string) (*entity.Claim, error) {
	var c entity.Claim
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Product").
		Preload("Warranty").
		Where("claim_id = ?", id).First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ClaimRepository) Update(ctx context.Context, c *entity.Claim) error {
	return r.db.WithContext(ctx).Save(c).Error
}

type ClaimListParams struct {
	Status     string
	CustomerID string
	WarrantyID string
	ProductID  string
	IssueType  string
	// OpenOnly 只返回未到completed/denied/closed的理赔
	OpenOnly bool
}

// List 按创建时间倒序返回理赔单（最新在前，列表契约）
func (r *ClaimRepository) List(ctx context.Context, params ClaimListParams) ([]entity.Claim, error) {
	query := r.db.WithContext(ctx).Model(&entity.Claim{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.WarrantyID != "" {
		query = query.Where("warranty_id = ?", params.WarrantyID)
	}
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.IssueType != "" {
		query = query.Where("issue_type = ?", params.IssueType)
	}
	if params.OpenOnly {
		query = query.Where("status NOT IN ?", []string{
			entity.ClaimStatusCompleted, entity.ClaimStatusDenied, entity.ClaimStatusClosed,
		})
	}
	var claims []entity.Claim
	if err := query.Order("created_at DESC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *ClaimRepository) ListByWarranty(ctx context.Context, warrantyID string) ([]entity.Claim, error) {
	return r.List(ctx, ClaimListParams{WarrantyID: warrantyID})
}

func (r *ClaimRepository) ListByCustomer(ctx context.Context, customerID string) ([]entity.Claim, error) {
	return r.List(ctx, ClaimListParams{CustomerID: customerID})
}

// CountInYear 统计某保修在指定自然年内已提交的理赔数
func (r *ClaimRepository) CountInYear(ctx context.Context, warrantyID string, year int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Claim{}).
		Where("warranty_id = ? AND EXTRACT(YEAR FROM claim_date) = ?", warrantyID, year).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// NextCode 生成下一个理赔编号
func (r *ClaimRepository) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.Claim{}, "claim_id", ClaimCodeTemplate)
}

// --- 附件 ---

func (r *ClaimRepository) CreateAttachment(ctx context.Context, a *entity.ClaimAttachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ClaimRepository) FindAttachment(ctx context.Context, id string) (*entity.ClaimAttachment, error) {
	var a entity.ClaimAttachment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *ClaimRepository) ListAttachments(ctx context.Context, claimID string) ([]entity.ClaimAttachment, error) {
	var attachments []entity.ClaimAttachment
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
