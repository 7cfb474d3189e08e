package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flavor_ai/config"
	"flavor_ai/logger"
	"flavor_ai/models"
	"flavor_ai/utils"
)

// 半径单位换算
const metersPerMile = 1609.34

// RadiusToMeters 将半径换算为米，单位无效时返回 false
func RadiusToMeters(value float64, unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case "kilometers", "km":
		return value * 1000, true
	case "miles", "mi":
		return value * metersPerMile, true
	}
	return 0, false
}

type nearbySearchResp struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID      string `json:"place_id"`
		Name         string `json:"name"`
		Vicinity     string `json:"vicinity"`
		OpeningHours *struct {
			OpenNow *bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

type placeDetailsResp struct {
	Status string `json:"status"`
	Result struct {
		Reviews []struct {
			Text   string  `json:"text"`
			Rating float64 `json:"rating"`
		} `json:"reviews"`
	} `json:"result"`
}

// GooglePlacesClient Google Places 附近搜索和详情接口
type GooglePlacesClient struct {
	baseURL   string
	apiKey    string
	resultCap int
	client    *http.Client
	caller    *ResilientCaller
}

func NewGooglePlacesClient(cfg *config.Config) *GooglePlacesClient {
	timeout := time.Duration(cfg.Places.TimeoutSec) * time.Second
	return &GooglePlacesClient{
		baseURL:   strings.TrimRight(cfg.Places.BaseURL, "/"),
		apiKey:    cfg.Places.APIKey,
		resultCap: cfg.Places.ResultCap,
		client:    &http.Client{},
		caller:    NewResilientCaller(cfg, "google_places", timeout),
	}
}

// FindNearby 查询附近餐厅，任何失败都返回空列表
func (c *GooglePlacesClient) FindNearby(ctx context.Context, lat, lon, radiusMeters float64) []models.RestaurantCandidate {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lon))
	params.Set("radius", strconv.FormatFloat(radiusMeters, 'f', -1, 64))
	params.Set("type", "restaurant")
	params.Set("key", c.apiKey)

	var resp nearbySearchResp
	err := c.caller.Do(ctx, func(ctx context.Context) error {
		return c.getJSON(ctx, "/nearbysearch/json", params, &resp)
	})
	if err != nil {
		logger.Error("附近餐厅搜索失败", "lat", lat, "lon", lon, "radius_m", radiusMeters, "error", err)
		return []models.RestaurantCandidate{}
	}
	if resp.Status != "" && resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		logger.Error("Google Places返回错误状态", "status", resp.Status, "message", resp.ErrorMessage)
		return []models.RestaurantCandidate{}
	}

	candidates := make([]models.RestaurantCandidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		cand := models.RestaurantCandidate{
			ID:       r.PlaceID,
			Name:     r.Name,
			Vicinity: r.Vicinity,
		}
		if r.OpeningHours != nil {
			cand.OpenNow = r.OpeningHours.OpenNow
		}
		candidates = append(candidates, cand)
		if len(candidates) >= c.resultCap {
			break
		}
	}

	logger.Info("附近餐厅搜索完成", "count", len(candidates))
	return candidates
}

// Reviews 查询餐厅评论，失败时返回空列表
func (c *GooglePlacesClient) Reviews(ctx context.Context, placeID string) []models.Review {
	params := url.Values{}
	params.Set("placeid", placeID)
	params.Set("fields", "reviews")
	params.Set("key", c.apiKey)

	var resp placeDetailsResp
	err := c.caller.Do(ctx, func(ctx context.Context) error {
		return c.getJSON(ctx, "/details/json", params, &resp)
	})
	if err != nil {
		logger.Error("获取餐厅评论失败", "place_id", placeID, "error", err)
		return []models.Review{}
	}
	if resp.Status != "OK" {
		logger.Warn("Google Places详情返回错误状态", "place_id", placeID, "status", resp.Status)
		return []models.Review{}
	}

	reviews := make([]models.Review, 0, len(resp.Result.Reviews))
	for _, r := range resp.Result.Reviews {
		reviews = append(reviews, models.Review{Text: r.Text, Rating: r.Rating})
	}
	return reviews
}

func (c *GooglePlacesClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return Permanent(err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("Google Places连接失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Google Places错误 (HTTP %d): %s", resp.StatusCode, utils.Preview(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return Permanent(fmt.Errorf("解析Google Places响应失败: %w", err))
	}
	return nil
}
