package models

import "strings"

// 口味维度，顺序固定，持久化列顺序与之一致
const (
	DimSalty = "salty"
	DimUmami = "umami"
	DimSpicy = "spicy"
	DimSweet = "sweet"
	DimSour  = "sour"
)

// TasteDimensions 五个口味维度的固定顺序
var TasteDimensions = []string{DimSalty, DimUmami, DimSpicy, DimSweet, DimSour}

// TasteVector 五维口味向量，每个维度取值 [0,1]，维度之间相互独立
type TasteVector struct {
	Salty float64 `json:"salty" validate:"min=0,max=1"`
	Umami float64 `json:"umami" validate:"min=0,max=1"`
	Spicy float64 `json:"spicy" validate:"min=0,max=1"`
	Sweet float64 `json:"sweet" validate:"min=0,max=1"`
	Sour  float64 `json:"sour" validate:"min=0,max=1"`
}

// Get 按维度名读取取值，未知维度返回 0 和 false
func (v TasteVector) Get(dim string) (float64, bool) {
	switch strings.ToLower(dim) {
	case DimSalty:
		return v.Salty, true
	case DimUmami:
		return v.Umami, true
	case DimSpicy:
		return v.Spicy, true
	case DimSweet:
		return v.Sweet, true
	case DimSour:
		return v.Sour, true
	}
	return 0, false
}

// Set 按维度名写入取值，写入前截断到 [0,1]
func (v *TasteVector) Set(dim string, val float64) bool {
	val = Clamp01(val)
	switch strings.ToLower(dim) {
	case DimSalty:
		v.Salty = val
	case DimUmami:
		v.Umami = val
	case DimSpicy:
		v.Spicy = val
	case DimSweet:
		v.Sweet = val
	case DimSour:
		v.Sour = val
	default:
		return false
	}
	return true
}

// Values 按 TasteDimensions 顺序返回取值
func (v TasteVector) Values() []float64 {
	return []float64{v.Salty, v.Umami, v.Spicy, v.Sweet, v.Sour}
}

// Valid 所有维度都在 [0,1] 内
func (v TasteVector) Valid() bool {
	for _, val := range v.Values() {
		if val < 0 || val > 1 {
			return false
		}
	}
	return true
}

// Clamp01 将取值截断到 [0,1]
func Clamp01(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > 1 {
		return 1
	}
	return val
}

// FlavorProfile 餐厅口味画像：口味向量加口感描述
type FlavorProfile struct {
	TasteVector
	Textures []string `json:"textures"`
}

// FallbackFlavorProfile 外部服务没有返回口味画像时使用的默认画像
func FallbackFlavorProfile() FlavorProfile {
	return FlavorProfile{
		TasteVector: TasteVector{Salty: 0.5, Umami: 0.5, Spicy: 0.5, Sweet: 0.5, Sour: 0.5},
		Textures:    []string{"varied"},
	}
}

// UserProfile 用户口味画像，每个用户一条记录
type UserProfile struct {
	UserID              string      `json:"user_id"`
	FavoriteTastes      TasteVector `json:"favorite_tastes"`
	TexturePreferences  []string    `json:"texture_preferences"`
	DietaryRestrictions []string    `json:"dietary_restrictions"`
	Allergies           []string    `json:"allergies"`
}

// HasDietaryRestriction 饮食限制中是否包含指定标签（精确匹配）
func (p *UserProfile) HasDietaryRestriction(tag string) bool {
	for _, r := range p.DietaryRestrictions {
		if r == tag {
			return true
		}
	}
	return false
}
