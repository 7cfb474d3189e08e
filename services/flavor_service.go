package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"flavor_ai/logger"
	"flavor_ai/models"
	"flavor_ai/utils"
)

// FlavorAnnotator 批量为餐厅生成口味画像，一次请求只调用一次
type FlavorAnnotator interface {
	Annotate(ctx context.Context, names []string) map[string]models.FlavorProfile
}

// LLMFlavorAnnotator 通过 LLM 推断餐厅口味画像
type LLMFlavorAnnotator struct {
	chat ChatCompleter
}

func NewLLMFlavorAnnotator(chat ChatCompleter) *LLMFlavorAnnotator {
	return &LLMFlavorAnnotator{chat: chat}
}

// Annotate 返回 名称 -> 口味画像，调用失败时返回空 map，由调用方使用默认画像
func (a *LLMFlavorAnnotator) Annotate(ctx context.Context, names []string) map[string]models.FlavorProfile {
	if len(names) == 0 {
		return map[string]models.FlavorProfile{}
	}

	content, err := a.chat.Complete(ctx, buildFlavorPrompt(names))
	if err != nil {
		logger.Error("生成餐厅口味画像失败，使用默认画像", "restaurants", len(names), "error", err)
		return map[string]models.FlavorProfile{}
	}

	profiles := parseFlavorProfiles(content)
	logger.Info("餐厅口味画像生成完成", "requested", len(names), "parsed", len(profiles))
	return profiles
}

func buildFlavorPrompt(names []string) string {
	var b strings.Builder
	b.WriteString("You are given a list of restaurant names. Produce a JSON object of the form ")
	b.WriteString(`{"profiles": {"<restaurant name>": {"salty": float, "umami": float, "spicy": float, "sweet": float, "sour": float, "textures": [string, ...]}}}`)
	b.WriteString(" mapping each restaurant's exact name to its flavor profile. ")
	b.WriteString("Each taste dimension is a float in [0,1] and textures is an array of short descriptive strings. ")
	b.WriteString("Only return the JSON object with no additional commentary.\n\nRestaurants:\n")
	for _, name := range names {
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return b.String()
}

// rawFlavor LLM 返回的单个口味画像，维度缺省时按 0 处理
type rawFlavor struct {
	Salty    *float64 `json:"salty"`
	Umami    *float64 `json:"umami"`
	Spicy    *float64 `json:"spicy"`
	Sweet    *float64 `json:"sweet"`
	Sour     *float64 `json:"sour"`
	Textures []string `json:"textures"`
}

// parseFlavorProfiles 解析 LLM 返回内容，单个餐厅解析失败或取值越界时跳过该餐厅
func parseFlavorProfiles(content string) map[string]models.FlavorProfile {
	result := make(map[string]models.FlavorProfile)

	var envelope struct {
		Profiles map[string]json.RawMessage `json:"profiles"`
	}
	jsonContent := utils.ExtractJSONFromText(content)
	if err := json.Unmarshal([]byte(jsonContent), &envelope); err != nil {
		logger.Error("解析LLM返回的JSON内容失败", "error", err, "content_preview", utils.Preview(content, 200))
		return result
	}
	if envelope.Profiles == nil {
		// 兼容直接返回 名称 -> 画像 的写法
		if err := json.Unmarshal([]byte(jsonContent), &envelope.Profiles); err != nil {
			return result
		}
	}

	for name, raw := range envelope.Profiles {
		var rf rawFlavor
		if err := json.Unmarshal(raw, &rf); err != nil {
			logger.Warn("餐厅口味画像格式错误，使用默认画像", "name", name, "error", err)
			continue
		}
		fp := models.FlavorProfile{
			TasteVector: models.TasteVector{
				Salty: deref(rf.Salty),
				Umami: deref(rf.Umami),
				Spicy: deref(rf.Spicy),
				Sweet: deref(rf.Sweet),
				Sour:  deref(rf.Sour),
			},
			Textures: rf.Textures,
		}
		if !fp.Valid() {
			logger.Warn("餐厅口味画像取值越界，使用默认画像", "name", name)
			continue
		}
		if fp.Textures == nil {
			fp.Textures = []string{}
		}
		result[name] = fp
	}
	return result
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
