package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"flavor_ai/config"
	"flavor_ai/logger"
	"flavor_ai/utils"
)

// ErrPushNotConfigured 未配置推送地址
var ErrPushNotConfigured = errors.New("feedback push url is not configured")

// FeedbackPushPayload 推送到外部API的反馈提醒
type FeedbackPushPayload struct {
	UserID         string `json:"user_id"`
	RestaurantName string `json:"restaurant_name"`
	Message        string `json:"message"`
}

// HTTPFeedbackPusher 通过第三方推送服务发送用餐反馈提醒
type HTTPFeedbackPusher struct {
	pushURL string
	apiKey  string
	client  *http.Client
	now     func() time.Time
}

func NewHTTPFeedbackPusher(cfg *config.Config) *HTTPFeedbackPusher {
	return &HTTPFeedbackPusher{
		pushURL: cfg.ExternalAPI.FeedbackPushURL,
		apiKey:  cfg.ExternalAPI.APIKey,
		client:  &http.Client{Timeout: time.Duration(cfg.ExternalAPI.TimeoutSec) * time.Second},
		now:     time.Now,
	}
}

// PushFeedbackRequest 提醒用户为刚去过的餐厅打分
func (p *HTTPFeedbackPusher) PushFeedbackRequest(ctx context.Context, userID, restaurantName string) error {
	if p.pushURL == "" {
		return ErrPushNotConfigured
	}

	payload := FeedbackPushPayload{
		UserID:         userID,
		RestaurantName: restaurantName,
		Message:        fmt.Sprintf("Rate your experience at %s.", restaurantName),
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化推送数据失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.pushURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	// 鉴权：Authorization = MD5(apiKey + 时间戳后4位)
	timestamp := utils.MillisTimestamp(p.now())
	if p.apiKey == "" {
		logger.Warn("EXTERNAL_API_KEY未设置", "user_id", userID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("timestamp", timestamp)
	req.Header.Set("Authorization", utils.CalculateAuthorizationHeader(p.apiKey, timestamp))
	req.Header.Set("apiKey", p.apiKey)

	logger.Info("HTTP推送请求信息", "url", p.pushURL, "user_id", userID, "restaurant", restaurantName)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送反馈提醒失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("反馈提醒推送返回非200状态码: %d", resp.StatusCode)
	}

	var result struct {
		ErrCode int    `json:"errCode"`
		Msg     string `json:"msg"`
		Success bool   `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("解析推送响应失败: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("反馈提醒推送失败: %d %s", result.ErrCode, result.Msg)
	}

	logger.Info("成功推送反馈提醒", "user_id", userID, "restaurant", restaurantName)
	return nil
}
