package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavor_ai/models"
)

func TestLLMFlavorAnnotator_Annotate(t *testing.T) {
	chat := &fakeChat{content: "Here you go:\n```json\n" + `{
  "profiles": {
    "Philippe The Original": {"salty": 0.7, "umami": 0.8, "spicy": 0.1, "sweet": 0.2, "sour": 0.1, "textures": ["tender", "juicy"]},
    "Sweet Spot": {"sweet": 0.9, "textures": ["creamy"]},
    "Lava Grill": {"salty": 1.4, "umami": 0.5, "spicy": 0.9, "sweet": 0.1, "sour": 0.1},
    "Odd Place": {"salty": "high"}
  }
}` + "\n```"}
	annotator := NewLLMFlavorAnnotator(chat)

	names := []string{"Philippe The Original", "Sweet Spot", "Lava Grill", "Odd Place", "Silent Diner"}
	got := annotator.Annotate(context.Background(), names)

	assert.Equal(t, 1, chat.calls())
	for _, name := range names {
		assert.Contains(t, chat.prompts[0], name)
	}

	require.Len(t, got, 2)
	assert.Equal(t, 0.8, got["Philippe The Original"].Umami)
	assert.Equal(t, []string{"tender", "juicy"}, got["Philippe The Original"].Textures)

	// 缺省维度按 0 处理
	sweet := got["Sweet Spot"]
	assert.Equal(t, models.TasteVector{Sweet: 0.9}, sweet.TasteVector)

	assert.NotContains(t, got, "Lava Grill")
	assert.NotContains(t, got, "Odd Place")
	assert.NotContains(t, got, "Silent Diner")
}

func TestLLMFlavorAnnotator_Failures(t *testing.T) {
	testcases := []struct {
		name string
		chat *fakeChat
	}{
		{name: "调用失败", chat: &fakeChat{err: errors.New("503 unavailable")}},
		{name: "返回内容不是JSON", chat: &fakeChat{content: "I cannot help with that."}},
		{name: "缺少profiles字段", chat: &fakeChat{content: `{"restaurants": []}`}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewLLMFlavorAnnotator(tc.chat).Annotate(context.Background(), []string{"A"})
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestLLMFlavorAnnotator_NoNames(t *testing.T) {
	chat := &fakeChat{content: `{"profiles": {}}`}
	got := NewLLMFlavorAnnotator(chat).Annotate(context.Background(), nil)
	assert.Empty(t, got)
	assert.Equal(t, 0, chat.calls())
}

func TestParseFlavorProfiles_BareMapping(t *testing.T) {
	got := parseFlavorProfiles(`{"A": {"salty": 0.1, "umami": 0.2, "spicy": 0.3, "sweet": 0.4, "sour": 0.5}}`)
	require.Contains(t, got, "A")
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, got["A"].Values())
	assert.Equal(t, []string{}, got["A"].Textures)
}
