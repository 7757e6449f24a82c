package service

import (
	"context"
	"math"
	"sort"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// DefaultDispatchLimit 派单推荐默认返回的网点数
const DefaultDispatchLimit = 5

// DispatchService 派单推荐：按评分、响应速度与技师可用性为网点打分
type DispatchService struct {
	centerRepo *repository.ServiceCenterRepository
	techRepo   *repository.TechnicianRepository
}

func NewDispatchService(centerRepo *repository.ServiceCenterRepository, techRepo *repository.TechnicianRepository) *DispatchService {
	return &DispatchService{centerRepo: centerRepo, techRepo: techRepo}
}

// DispatchCandidate 派单候选网点
type DispatchCandidate struct {
	entity.ServiceCenter
	DispatchScore        float64 `json:"dispatch_score"`
	AvailableTechnicians int     `json:"available_technicians"`
}

// dispatchScore 派单评分：评分占40分，响应速度占30分，技师可用性占30分。
// 响应天数不足1天按1天计。结果保留1位小数。
func dispatchScore(rating, avgResponseDays float64, availableTechs int) float64 {
	score := rating/5*40 + 30/math.Max(avgResponseDays, 1)
	if availableTechs > 0 {
		score += 30
	}
	return math.Round(score*10) / 10
}

// Recommend 为指定产品品类推荐服务网点，按评分倒序返回前limit个。
// 品牌与州为可选过滤条件；并列分按过滤后的评分序保持稳定。
func (s *DispatchService) Recommend(ctx context.Context, productCategory, brand, state string, limit int) ([]DispatchCandidate, error) {
	if productCategory == "" {
		return nil, invalidInput("product_category is required")
	}
	if limit <= 0 {
		limit = DefaultDispatchLimit
	}

	active := true
	centers, err := s.centerRepo.List(ctx, repository.ServiceCenterListParams{
		State:          state,
		Specialization: productCategory,
		Brand:          brand,
		Active:         &active,
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]DispatchCandidate, 0, len(centers))
	for _, c := range centers {
		techs, err := s.techRepo.CountAvailableByCenter(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, DispatchCandidate{
			ServiceCenter:        c,
			DispatchScore:        dispatchScore(c.Rating, c.AvgResponseDays, int(techs)),
			AvailableTechnicians: int(techs),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DispatchScore > candidates[j].DispatchScore
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
