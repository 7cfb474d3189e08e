package services

import (
	"math"
	"sort"
	"strings"

	"flavor_ai/logger"
	"flavor_ai/metrics"
	"flavor_ai/models"
)

// DefaultTopN 默认返回的推荐数量
const DefaultTopN = 3

// RankOptions 排序选项
type RankOptions struct {
	TopN int // <=0 时使用 DefaultTopN
	// OpenNowOnly 为 true 时丢弃明确标记为未营业的餐厅，没有营业信息的保留
	OpenNowOnly bool
}

// FilterCandidates 依次执行排序前的过滤步骤：
//  1. 去掉已经吃过的餐厅（名称忽略大小写匹配）
//  2. 饮食限制包含 "gluten-free" 时去掉名称包含 "burger" 的餐厅。
//     这只是按名称的粗略替代规则，不是真正的过敏原检查
//  3. 可选：去掉当前未营业的餐厅
//
// 每一步都是完全过滤，后续步骤不会把餐厅加回来
func FilterCandidates(profile *models.UserProfile, candidates []models.RestaurantCandidate, excludedNames []string, openNowOnly bool) []models.RestaurantCandidate {
	excluded := make(map[string]struct{}, len(excludedNames))
	for _, name := range excludedNames {
		excluded[strings.ToLower(name)] = struct{}{}
	}

	filtered := make([]models.RestaurantCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := excluded[strings.ToLower(c.Name)]; ok {
			continue
		}
		filtered = append(filtered, c)
	}

	if profile.HasDietaryRestriction("gluten-free") {
		kept := filtered[:0]
		for _, c := range filtered {
			if !strings.Contains(strings.ToLower(c.Name), "burger") {
				kept = append(kept, c)
			}
		}
		filtered = kept
	}

	if openNowOnly {
		kept := filtered[:0]
		for _, c := range filtered {
			if c.OpenNow != nil && !*c.OpenNow {
				continue
			}
			kept = append(kept, c)
		}
		filtered = kept
	}

	return filtered
}

// AttachFlavors 按餐厅名称挂载口味画像，缺失或非法时使用默认画像
func AttachFlavors(candidates []models.RestaurantCandidate, flavors map[string]models.FlavorProfile) []models.RestaurantCandidate {
	for i := range candidates {
		fp, ok := flavors[candidates[i].Name]
		if !ok || !fp.Valid() {
			fp = models.FallbackFlavorProfile()
		}
		candidates[i].Flavor = &fp
	}
	return candidates
}

// Similarity 五个维度上 (1 - |用户值 - 餐厅值|) 的平均值，范围 [0,1]
func Similarity(user, restaurant models.TasteVector) float64 {
	u, r := user.Values(), restaurant.Values()
	score := 0.0
	for i := range u {
		score += 1 - math.Abs(u[i]-r[i])
	}
	return score / float64(len(u))
}

// Rank 过滤、打分并返回前 TopN 个推荐，过滤后为空时返回空列表
func Rank(profile *models.UserProfile, candidates []models.RestaurantCandidate, excludedNames []string, opts RankOptions) []models.RankedRestaurant {
	filtered := FilterCandidates(profile, candidates, excludedNames, opts.OpenNowOnly)
	for i := range filtered {
		if filtered[i].Flavor == nil || !filtered[i].Flavor.Valid() {
			fp := models.FallbackFlavorProfile()
			filtered[i].Flavor = &fp
		}
	}
	return Score(profile, filtered, opts.TopN)
}

// Score 对已过滤并挂载口味画像的候选餐厅打分排序
func Score(profile *models.UserProfile, candidates []models.RestaurantCandidate, topN int) []models.RankedRestaurant {
	if topN <= 0 {
		topN = DefaultTopN
	}
	metrics.RankedCandidates.Observe(float64(len(candidates)))

	ranked := make([]models.RankedRestaurant, 0, len(candidates))
	for _, c := range candidates {
		flavor := models.FallbackFlavorProfile()
		if c.Flavor != nil {
			flavor = *c.Flavor
		}
		ranked = append(ranked, models.RankedRestaurant{
			Candidate:  c,
			Similarity: Similarity(profile.FavoriteTastes, flavor.TasteVector),
		})
	}

	// 稳定排序，分数相同时保持原有顺序
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	logger.Debug("推荐排序完成", "user_id", profile.UserID, "candidates", len(candidates), "returned", len(ranked))
	return ranked
}
