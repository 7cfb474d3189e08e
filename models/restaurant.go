package models

// RestaurantCandidate 附近搜索返回的候选餐厅，每次请求临时构造，不持久化
type RestaurantCandidate struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Vicinity string         `json:"vicinity"`
	OpenNow  *bool          `json:"open_now,omitempty"` // 外部数据没有营业信息时为 nil
	Flavor   *FlavorProfile `json:"flavor_profile,omitempty"`
}

// RankedRestaurant 排序后的推荐结果
type RankedRestaurant struct {
	Candidate  RestaurantCandidate `json:"restaurant"`
	Similarity float64             `json:"similarity"`
}

// Review 餐厅评论
type Review struct {
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
}

// Location 经纬度
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// 定位来源
const (
	LocationSourceRequest  = "request"
	LocationSourceFallback = "fallback"
)

// LocationResult 定位结果，Source 标明坐标来自定位还是默认坐标
type LocationResult struct {
	Location Location `json:"location"`
	Source   string   `json:"source"`
}

// RecommendationResult 一次推荐的结果
type RecommendationResult struct {
	UserID          string             `json:"user_id"`
	Location        LocationResult     `json:"location"`
	Recommendations []RankedRestaurant `json:"recommendations"`
}

// NearbyResult 附近餐厅搜索结果
type NearbyResult struct {
	Location    LocationResult        `json:"location"`
	Restaurants []RestaurantCandidate `json:"restaurants"`
}
