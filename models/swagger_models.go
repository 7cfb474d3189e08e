package models

// APIResponse 通用API响应
type APIResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ProfileResponse 用户画像响应
type ProfileResponse struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message" example:"success"`
	Data    *UserProfile `json:"data"`
}

// RecommendationResponse 推荐结果响应
type RecommendationResponse struct {
	Code    int                   `json:"code" example:"0"`
	Message string                `json:"message" example:"success"`
	Data    *RecommendationResult `json:"data"`
}

// FeedbackResponse 反馈处理响应
type FeedbackResponse struct {
	Code    int             `json:"code" example:"0"`
	Message string          `json:"message" example:"success"`
	Data    *FeedbackResult `json:"data"`
}

// NearbyResponse 附近餐厅响应
type NearbyResponse struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message" example:"success"`
	Data    *NearbyResult `json:"data"`
}

// ReviewsResponse 餐厅评论响应
type ReviewsResponse struct {
	Code    int      `json:"code" example:"0"`
	Message string   `json:"message" example:"success"`
	Data    []Review `json:"data"`
}
