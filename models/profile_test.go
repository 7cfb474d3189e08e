package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTasteVector_GetSet(t *testing.T) {
	var v TasteVector
	for i, dim := range TasteDimensions {
		assert.True(t, v.Set(dim, float64(i)/10))
	}
	assert.Equal(t, []float64{0, 0.1, 0.2, 0.3, 0.4}, v.Values())

	got, ok := v.Get("SPICY")
	assert.True(t, ok)
	assert.Equal(t, 0.2, got)

	_, ok = v.Get("bitter")
	assert.False(t, ok)
	assert.False(t, v.Set("bitter", 0.5))
}

func TestTasteVector_SetClamps(t *testing.T) {
	testcases := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "低于0", in: -0.05, want: 0},
		{name: "高于1", in: 1.05, want: 1},
		{name: "区间内", in: 0.3, want: 0.3},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var v TasteVector
			v.Set(DimSalty, tc.in)
			assert.Equal(t, tc.want, v.Salty)
		})
	}
}

func TestTasteVector_Valid(t *testing.T) {
	assert.True(t, TasteVector{Salty: 1, Sour: 0}.Valid())
	assert.False(t, TasteVector{Umami: 1.2}.Valid())
	assert.False(t, TasteVector{Sweet: -0.1}.Valid())
}

func TestFallbackFlavorProfile(t *testing.T) {
	fp := FallbackFlavorProfile()
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5, 0.5}, fp.Values())
	assert.Equal(t, []string{"varied"}, fp.Textures)

	// 每次返回独立的副本
	fp.Textures[0] = "changed"
	assert.Equal(t, []string{"varied"}, FallbackFlavorProfile().Textures)
}

func TestUserProfile_HasDietaryRestriction(t *testing.T) {
	p := &UserProfile{DietaryRestrictions: []string{"halal", "gluten-free"}}
	assert.True(t, p.HasDietaryRestriction("gluten-free"))
	assert.False(t, p.HasDietaryRestriction("vegan"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 200, HTTPStatus(CodeSuccess))
	assert.Equal(t, 404, HTTPStatus(CodeUserNotFound))
	assert.Equal(t, 409, HTTPStatus(CodeProfileExists))
	assert.Equal(t, 400, HTTPStatus(CodeInvalidParams))
	assert.Equal(t, 500, HTTPStatus(CodeDatabaseError))
	assert.Equal(t, 502, HTTPStatus(CodeThirdPartyAPIError))
}
