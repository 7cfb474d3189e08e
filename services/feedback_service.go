package services

import (
	"strings"

	"flavor_ai/logger"
	"flavor_ai/metrics"
	"flavor_ai/models"
)

// FeedbackStep 每条匹配规则对口味值的调整幅度
const FeedbackStep = 0.1

// ApplyFeedback 根据反馈文本调整用户口味向量（原地修改），返回每次调整的记录。
// 对每个维度忽略大小写查找：
//   - "too <维度>"：减少 FeedbackStep，最低为 0
//   - "not <维度> enough"：增加 FeedbackStep，最高为 1
//
// 两种说法同时出现时按先减后加的顺序都执行。favorability 只记录，不参与计算。
// 本函数不做任何持久化，由调用方负责保存
func ApplyFeedback(profile *models.UserProfile, favorability float64, comment string) []models.TasteChange {
	lower := strings.ToLower(comment)
	changes := make([]models.TasteChange, 0)

	for _, dim := range models.TasteDimensions {
		if strings.Contains(lower, "too "+dim) {
			changes = append(changes, adjust(profile, dim, -FeedbackStep))
			metrics.FeedbackAdjustments.WithLabelValues(dim, "down").Inc()
		}
		if strings.Contains(lower, "not "+dim+" enough") {
			changes = append(changes, adjust(profile, dim, FeedbackStep))
			metrics.FeedbackAdjustments.WithLabelValues(dim, "up").Inc()
		}
	}

	for _, c := range changes {
		logger.Info("口味偏好已调整",
			"user_id", profile.UserID,
			"dimension", c.Dimension,
			"old", c.OldValue,
			"new", c.NewValue,
			"favorability", favorability)
	}
	return changes
}

func adjust(profile *models.UserProfile, dim string, delta float64) models.TasteChange {
	old, _ := profile.FavoriteTastes.Get(dim)
	profile.FavoriteTastes.Set(dim, old+delta)
	updated, _ := profile.FavoriteTastes.Get(dim)
	return models.TasteChange{Dimension: dim, OldValue: old, NewValue: updated}
}
