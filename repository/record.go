package repository

import (
	"fmt"
	"strconv"

	"flavor_ai/models"
	"flavor_ai/utils"
)

// profileColumns 持久化列顺序
var profileColumns = []string{
	"user_id", "salty", "umami", "spicy", "sweet", "sour",
	"texture_preferences", "dietary_restrictions", "allergies",
}

// encodeRecord 将画像转换为一行记录
func encodeRecord(p *models.UserProfile) []string {
	row := []string{p.UserID}
	for _, val := range p.FavoriteTastes.Values() {
		row = append(row, formatFloat(val))
	}
	return append(row,
		utils.JoinList(p.TexturePreferences),
		utils.JoinList(p.DietaryRestrictions),
		utils.JoinList(p.Allergies),
	)
}

// decodeRecord 将一行记录解析为画像，口味缺省或非法时按 0 处理并截断到 [0,1]
func decodeRecord(row []string) (*models.UserProfile, error) {
	if len(row) < len(profileColumns) {
		return nil, fmt.Errorf("record has %d columns, want %d", len(row), len(profileColumns))
	}
	p := &models.UserProfile{
		UserID:              row[0],
		TexturePreferences:  utils.SplitList(row[6]),
		DietaryRestrictions: utils.SplitList(row[7]),
		Allergies:           utils.SplitList(row[8]),
	}
	for i, dim := range models.TasteDimensions {
		val, err := strconv.ParseFloat(row[1+i], 64)
		if err != nil {
			val = 0
		}
		p.FavoriteTastes.Set(dim, val)
	}
	return p, nil
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
