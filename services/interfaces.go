package services

import (
	"context"

	"flavor_ai/models"
)

// PlaceSearchProvider 附近餐厅搜索，失败时返回空列表而不是错误
type PlaceSearchProvider interface {
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64) []models.RestaurantCandidate
	Reviews(ctx context.Context, placeID string) []models.Review
}

// LocationProvider 获取当前位置
type LocationProvider interface {
	Locate(ctx context.Context) (models.Location, error)
}

// FeedbackNotifier 向用户推送用餐反馈提醒
type FeedbackNotifier interface {
	PushFeedbackRequest(ctx context.Context, userID, restaurantName string) error
}

// TasteInferer 根据喜欢的食物推断初始口味画像
type TasteInferer interface {
	Infer(ctx context.Context, favorites []string) models.FlavorProfile
}
