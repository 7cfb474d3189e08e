package models

// OnboardingRequest 新用户建档请求
type OnboardingRequest struct {
	Favorites           []string     `json:"favorites" example:"Pizza,Sushi,Tacos"`
	DietaryRestrictions []string     `json:"dietary_restrictions" example:"gluten-free"`
	Allergies           []string     `json:"allergies" example:"nuts"`
	TexturePreferences  []string     `json:"texture_preferences,omitempty" example:"crispy"`
	Tastes              *TasteVector `json:"favorite_tastes,omitempty"` // 显式指定初始口味，跳过推断
}

// SearchRequest 附近餐厅搜索参数
type SearchRequest struct {
	Lat         *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon         *float64 `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`
	RadiusValue float64  `json:"radius_value" validate:"omitempty,gt=0" example:"2"`
	RadiusUnit  string   `json:"radius_unit" validate:"omitempty,oneof=miles mi kilometers km" example:"miles"`
}

// RecommendationRequest 推荐请求
type RecommendationRequest struct {
	SearchRequest
	TriedRestaurants []string `json:"tried_restaurants" example:"Burger Bonanza"`
	TopN             int      `json:"top_n,omitempty" validate:"min=0,max=20" example:"3"`
	OpenNowOnly      *bool    `json:"open_now_only,omitempty"`
}

// FeedbackRequest 用餐反馈请求
type FeedbackRequest struct {
	RestaurantName string  `json:"restaurant_name" example:"Philippe The Original"`
	Favorability   float64 `json:"favorability" validate:"min=0,max=1" example:"0.8"`
	Comment        string  `json:"comment" example:"too salty"`
}

// PushFeedbackRequest 推送反馈提醒请求
type PushFeedbackRequest struct {
	RestaurantName string `json:"restaurant_name" validate:"required" example:"Philippe The Original"`
}
