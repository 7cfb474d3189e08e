package models

// TasteChange 一次反馈对某个维度的调整记录
type TasteChange struct {
	Dimension string  `json:"dimension"`
	OldValue  float64 `json:"old_value"`
	NewValue  float64 `json:"new_value"`
}

// FeedbackResult 反馈处理结果
type FeedbackResult struct {
	UserID         string        `json:"user_id"`
	RestaurantName string        `json:"restaurant_name"`
	Favorability   float64       `json:"favorability"`
	Changes        []TasteChange `json:"changes"`
	Profile        *UserProfile  `json:"profile"`
}
