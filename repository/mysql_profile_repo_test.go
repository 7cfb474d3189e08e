package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavor_ai/models"
)

// 需要可用的 MySQL，例如
// MYSQL_TEST_DSN="root:root@tcp(127.0.0.1:3306)/flavor_test?charset=utf8mb4&parseTime=true"
func openTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN 未设置，跳过 MySQL 测试")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMySQLProfileStore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewMySQLProfileStore(db)
	require.NoError(t, store.EnsureSchema(ctx))

	_, err := db.ExecContext(ctx, `DELETE FROM user_taste_profiles WHERE user_id IN ('it_u1', 'it_ghost')`)
	require.NoError(t, err)

	_, err = store.Load(ctx, "it_ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.ErrorIs(t, store.Save(ctx, &models.UserProfile{UserID: "it_ghost"}), ErrProfileNotFound)

	p := &models.UserProfile{
		UserID:              "it_u1",
		FavoriteTastes:      models.TasteVector{Salty: 0.5, Umami: 0.7, Spicy: 0.2, Sweet: 0.4, Sour: 0.1},
		TexturePreferences:  []string{"crispy", "chewy"},
		DietaryRestrictions: []string{"gluten-free"},
		Allergies:           []string{},
	}
	_, err = store.Create(ctx, p, CreateOptions{})
	require.NoError(t, err)

	_, err = store.Create(ctx, p, CreateOptions{})
	assert.ErrorIs(t, err, ErrProfileExists)

	loaded, err := store.Load(ctx, "it_u1")
	require.NoError(t, err)
	assert.Equal(t, p, loaded)

	loaded.FavoriteTastes.Salty = 0.4
	require.NoError(t, store.Save(ctx, loaded))
	// 内容不变时保存也应成功
	require.NoError(t, store.Save(ctx, loaded))

	reloaded, err := store.Load(ctx, "it_u1")
	require.NoError(t, err)
	assert.Equal(t, 0.4, reloaded.FavoriteTastes.Salty)

	p.FavoriteTastes.Sour = 0.9
	_, err = store.Create(ctx, p, CreateOptions{Overwrite: true})
	require.NoError(t, err)
	reloaded, err = store.Load(ctx, "it_u1")
	require.NoError(t, err)
	assert.Equal(t, 0.9, reloaded.FavoriteTastes.Sour)
}
