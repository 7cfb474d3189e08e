package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"flavor_ai/logger"
	"flavor_ai/models"
	"flavor_ai/utils"
)

// cuisineStyle 菜系对应的典型口味
type cuisineStyle struct {
	taste    models.TasteVector
	textures []string
	keywords []string // 食物名称中出现这些词时直接归入该菜系
}

var cuisineStyles = map[string]cuisineStyle{
	"italian": {
		taste:    models.TasteVector{Salty: 0.6, Umami: 0.7, Spicy: 0.2, Sweet: 0.3, Sour: 0.3},
		textures: []string{"chewy", "cheesy"},
		keywords: []string{"pizza", "pasta", "spaghetti", "lasagna", "risotto", "italian"},
	},
	"mexican": {
		taste:    models.TasteVector{Salty: 0.6, Umami: 0.5, Spicy: 0.7, Sweet: 0.2, Sour: 0.4},
		textures: []string{"crunchy", "saucy"},
		keywords: []string{"taco", "burrito", "quesadilla", "enchilada", "nacho", "mexican"},
	},
	"thai": {
		taste:    models.TasteVector{Salty: 0.5, Umami: 0.6, Spicy: 0.8, Sweet: 0.5, Sour: 0.6},
		textures: []string{"saucy", "tender"},
		keywords: []string{"pad thai", "curry", "tom yum", "thai"},
	},
	"indian": {
		taste:    models.TasteVector{Salty: 0.5, Umami: 0.5, Spicy: 0.8, Sweet: 0.3, Sour: 0.3},
		textures: []string{"creamy", "saucy"},
		keywords: []string{"masala", "biryani", "tandoori", "naan", "indian"},
	},
	"japanese": {
		taste:    models.TasteVector{Salty: 0.5, Umami: 0.8, Spicy: 0.1, Sweet: 0.3, Sour: 0.2},
		textures: []string{"tender", "silky"},
		keywords: []string{"sushi", "ramen", "tempura", "udon", "sashimi", "japanese"},
	},
	"chinese": {
		taste:    models.TasteVector{Salty: 0.6, Umami: 0.7, Spicy: 0.5, Sweet: 0.4, Sour: 0.3},
		textures: []string{"crispy", "tender"},
		keywords: []string{"dumpling", "noodle", "fried rice", "chow mein", "dim sum", "chinese"},
	},
	"american": {
		taste:    models.TasteVector{Salty: 0.7, Umami: 0.6, Spicy: 0.2, Sweet: 0.4, Sour: 0.1},
		textures: []string{"crispy", "juicy"},
		keywords: []string{"burger", "fries", "hot dog", "bbq", "steak", "wings", "sandwich"},
	},
	"korean": {
		taste:    models.TasteVector{Salty: 0.6, Umami: 0.7, Spicy: 0.7, Sweet: 0.4, Sour: 0.4},
		textures: []string{"chewy", "crispy"},
		keywords: []string{"kimchi", "bibimbap", "bulgogi", "korean"},
	},
	"mediterranean": {
		taste:    models.TasteVector{Salty: 0.5, Umami: 0.4, Spicy: 0.2, Sweet: 0.2, Sour: 0.5},
		textures: []string{"creamy", "crunchy"},
		keywords: []string{"falafel", "hummus", "gyro", "shawarma", "kebab", "greek"},
	},
	"french": {
		taste:    models.TasteVector{Salty: 0.5, Umami: 0.6, Spicy: 0.1, Sweet: 0.4, Sour: 0.2},
		textures: []string{"creamy", "flaky"},
		keywords: []string{"croissant", "crepe", "baguette", "french"},
	},
	"vietnamese": {
		taste:    models.TasteVector{Salty: 0.5, Umami: 0.7, Spicy: 0.4, Sweet: 0.3, Sour: 0.5},
		textures: []string{"fresh", "crunchy"},
		keywords: []string{"pho", "banh mi", "spring roll", "vietnamese"},
	},
	"dessert": {
		taste:    models.TasteVector{Salty: 0.1, Umami: 0.1, Spicy: 0.0, Sweet: 0.9, Sour: 0.2},
		textures: []string{"creamy", "soft"},
		keywords: []string{"cake", "ice cream", "donut", "cookie", "pie", "dessert", "chocolate"},
	},
}

// CuisineStyles 已知菜系名称
func CuisineStyles() []string {
	names := make([]string, 0, len(cuisineStyles))
	for name := range cuisineStyles {
		names = append(names, name)
	}
	return names
}

// LLMTasteInferer 用一次 LLM 调用把每个喜欢的食物归入菜系，再按菜系表合成初始口味
type LLMTasteInferer struct {
	chat ChatCompleter
}

func NewLLMTasteInferer(chat ChatCompleter) *LLMTasteInferer {
	return &LLMTasteInferer{chat: chat}
}

// Infer 返回识别出的菜系口味的平均值，没有任何识别结果时返回默认画像
func (i *LLMTasteInferer) Infer(ctx context.Context, favorites []string) models.FlavorProfile {
	favorites = utils.DeduplicateSlice(favorites)
	if len(favorites) == 0 {
		return models.FallbackFlavorProfile()
	}

	styles := map[string]string{}
	if i.chat != nil {
		content, err := i.chat.Complete(ctx, buildStylePrompt(favorites))
		if err != nil {
			logger.Warn("LLM菜系识别失败，使用关键词匹配", "error", err)
		} else {
			styles = parseStyles(content)
		}
	}

	matched := make([]cuisineStyle, 0, len(favorites))
	for _, food := range favorites {
		style, ok := cuisineStyles[strings.ToLower(strings.TrimSpace(styles[food]))]
		if !ok {
			style, ok = matchStyleByKeyword(food)
		}
		if !ok {
			logger.Debug("无法识别食物菜系", "food", food)
			continue
		}
		matched = append(matched, style)
	}

	if len(matched) == 0 {
		return models.FallbackFlavorProfile()
	}
	return blendStyles(matched)
}

func buildStylePrompt(favorites []string) string {
	var b strings.Builder
	b.WriteString("Classify each food below into exactly one cuisine style from this list: ")
	b.WriteString("italian, mexican, thai, indian, japanese, chinese, american, korean, mediterranean, french, vietnamese, dessert. ")
	b.WriteString(`Return only a JSON object of the form {"styles": {"<food>": "<style>"}} using the exact food names.`)
	b.WriteString("\n\nFoods:\n")
	for _, food := range favorites {
		fmt.Fprintf(&b, "- %s\n", food)
	}
	return b.String()
}

func parseStyles(content string) map[string]string {
	var resp struct {
		Styles map[string]string `json:"styles"`
	}
	if err := json.Unmarshal([]byte(utils.ExtractJSONFromText(content)), &resp); err != nil {
		logger.Warn("解析菜系识别结果失败", "error", err, "content_preview", utils.Preview(content, 200))
		return map[string]string{}
	}
	if resp.Styles == nil {
		return map[string]string{}
	}
	return resp.Styles
}

func matchStyleByKeyword(food string) (cuisineStyle, bool) {
	lower := strings.ToLower(food)
	// 按菜系名排序遍历，保证同一个食物每次匹配结果一致
	for _, name := range sortedStyleNames() {
		style := cuisineStyles[name]
		for _, kw := range style.keywords {
			if strings.Contains(lower, kw) {
				return style, true
			}
		}
	}
	return cuisineStyle{}, false
}

func sortedStyleNames() []string {
	names := CuisineStyles()
	sort.Strings(names)
	return names
}

func blendStyles(styles []cuisineStyle) models.FlavorProfile {
	var sum models.TasteVector
	textures := make([]string, 0)
	for _, s := range styles {
		sum.Salty += s.taste.Salty
		sum.Umami += s.taste.Umami
		sum.Spicy += s.taste.Spicy
		sum.Sweet += s.taste.Sweet
		sum.Sour += s.taste.Sour
		textures = append(textures, s.textures...)
	}

	n := float64(len(styles))
	var avg models.TasteVector
	for _, dim := range models.TasteDimensions {
		v, _ := sum.Get(dim)
		avg.Set(dim, v/n)
	}
	return models.FlavorProfile{TasteVector: avg, Textures: utils.DeduplicateSlice(textures)}
}
