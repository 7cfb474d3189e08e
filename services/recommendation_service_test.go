package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavor_ai/models"
)

func flavor(v float64) *models.FlavorProfile {
	return &models.FlavorProfile{
		TasteVector: models.TasteVector{Salty: v, Umami: v, Spicy: v, Sweet: v, Sour: v},
		Textures:    []string{"crispy"},
	}
}

func neutralProfile() *models.UserProfile {
	return &models.UserProfile{
		UserID:         "u1",
		FavoriteTastes: models.TasteVector{Salty: 0.5, Umami: 0.5, Spicy: 0.5, Sweet: 0.5, Sour: 0.5},
	}
}

func boolPtr(b bool) *bool { return &b }

func TestSimilarity(t *testing.T) {
	u := models.TasteVector{Salty: 0.2, Umami: 0.9, Spicy: 0, Sweet: 1, Sour: 0.4}
	assert.Equal(t, 1.0, Similarity(u, u))

	zeros := models.TasteVector{}
	ones := models.TasteVector{Salty: 1, Umami: 1, Spicy: 1, Sweet: 1, Sour: 1}
	assert.Equal(t, 0.0, Similarity(zeros, ones))

	s := Similarity(u, ones)
	assert.GreaterOrEqual(t, s, 0.0)
	assert.LessOrEqual(t, s, 1.0)
}

func TestRank(t *testing.T) {
	testcases := []struct {
		name       string
		profile    *models.UserProfile
		candidates []models.RestaurantCandidate
		excluded   []string
		opts       RankOptions
		wantNames  []string
		wantScores []float64
	}{
		{
			name:    "按相似度降序",
			profile: neutralProfile(),
			candidates: []models.RestaurantCandidate{
				{Name: "B", Flavor: flavor(1)},
				{Name: "A", Flavor: flavor(0.5)},
			},
			opts:       RankOptions{TopN: 2},
			wantNames:  []string{"A", "B"},
			wantScores: []float64{1.0, 0.5},
		},
		{
			name: "无麸质饮食排除汉堡店",
			profile: &models.UserProfile{
				FavoriteTastes:      models.TasteVector{Salty: 0.5, Umami: 0.5, Spicy: 0.5, Sweet: 0.5, Sour: 0.5},
				DietaryRestrictions: []string{"gluten-free"},
			},
			candidates: []models.RestaurantCandidate{
				{Name: "Burger Bonanza", Flavor: flavor(0.5)},
				{Name: "Salad Stop", Flavor: flavor(0)},
			},
			wantNames:  []string{"Salad Stop"},
			wantScores: []float64{0.5},
		},
		{
			name:    "排除已吃过的餐厅，忽略大小写",
			profile: neutralProfile(),
			candidates: []models.RestaurantCandidate{
				{Name: "Taco Town", Flavor: flavor(0.5)},
				{Name: "Pho King", Flavor: flavor(0.4)},
			},
			excluded:   []string{"taco town"},
			wantNames:  []string{"Pho King"},
			wantScores: []float64{0.9},
		},
		{
			name:    "默认最多返回3个",
			profile: neutralProfile(),
			candidates: []models.RestaurantCandidate{
				{Name: "R1", Flavor: flavor(0.1)},
				{Name: "R2", Flavor: flavor(0.2)},
				{Name: "R3", Flavor: flavor(0.3)},
				{Name: "R4", Flavor: flavor(0.4)},
				{Name: "R5", Flavor: flavor(0.5)},
			},
			wantNames:  []string{"R5", "R4", "R3"},
			wantScores: []float64{1.0, 0.9, 0.8},
		},
		{
			name:    "分数相同时保持原顺序",
			profile: neutralProfile(),
			candidates: []models.RestaurantCandidate{
				{Name: "First", Flavor: flavor(0.4)},
				{Name: "Second", Flavor: flavor(0.4)},
				{Name: "Third", Flavor: flavor(0.5)},
			},
			opts:       RankOptions{TopN: 3},
			wantNames:  []string{"Third", "First", "Second"},
			wantScores: []float64{1.0, 0.9, 0.9},
		},
		{
			name:    "没有口味画像时使用默认画像",
			profile: neutralProfile(),
			candidates: []models.RestaurantCandidate{
				{Name: "Mystery"},
			},
			wantNames:  []string{"Mystery"},
			wantScores: []float64{1.0},
		},
		{
			name:    "只保留营业中或营业状态未知的餐厅",
			profile: neutralProfile(),
			candidates: []models.RestaurantCandidate{
				{Name: "Closed", OpenNow: boolPtr(false), Flavor: flavor(0.5)},
				{Name: "Open", OpenNow: boolPtr(true), Flavor: flavor(0.3)},
				{Name: "Unknown", Flavor: flavor(0.4)},
			},
			opts:       RankOptions{OpenNowOnly: true},
			wantNames:  []string{"Unknown", "Open"},
			wantScores: []float64{0.9, 0.8},
		},
		{
			name:    "全部被过滤时返回空列表",
			profile: neutralProfile(),
			candidates: []models.RestaurantCandidate{
				{Name: "Only", Flavor: flavor(0.5)},
			},
			excluded:   []string{"Only"},
			wantNames:  []string{},
			wantScores: []float64{},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			ranked := Rank(tc.profile, tc.candidates, tc.excluded, tc.opts)
			require.NotNil(t, ranked)
			require.Len(t, ranked, len(tc.wantNames))
			for i := range ranked {
				assert.Equal(t, tc.wantNames[i], ranked[i].Candidate.Name)
				assert.InDelta(t, tc.wantScores[i], ranked[i].Similarity, 1e-9)
			}
		})
	}
}

func TestRank_NeverExceedsTopNOrReturnsExcluded(t *testing.T) {
	candidates := make([]models.RestaurantCandidate, 0, 20)
	for i := 0; i < 20; i++ {
		candidates = append(candidates, models.RestaurantCandidate{
			Name:   string(rune('A' + i)),
			Flavor: flavor(float64(i) / 20),
		})
	}
	excluded := []string{"a", "K", "t"}

	for topN := 1; topN <= 25; topN++ {
		ranked := Rank(neutralProfile(), candidates, excluded, RankOptions{TopN: topN})
		assert.LessOrEqual(t, len(ranked), topN)
		for _, r := range ranked {
			assert.NotContains(t, []string{"A", "K", "T"}, r.Candidate.Name)
		}
	}
}

func TestAttachFlavors(t *testing.T) {
	candidates := []models.RestaurantCandidate{{Name: "Known"}, {Name: "Missing"}, {Name: "Broken"}}
	flavors := map[string]models.FlavorProfile{
		"Known":  *flavor(0.2),
		"Broken": {TasteVector: models.TasteVector{Salty: 3}},
	}

	got := AttachFlavors(candidates, flavors)
	require.Len(t, got, 3)
	assert.Equal(t, 0.2, got[0].Flavor.Salty)
	assert.Equal(t, models.FallbackFlavorProfile(), *got[1].Flavor)
	assert.Equal(t, models.FallbackFlavorProfile(), *got[2].Flavor)
}
