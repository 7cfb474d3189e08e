package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"flavor_ai/logger"
	"flavor_ai/models"
	"flavor_ai/utils"
)

const createProfileTableSQL = `
CREATE TABLE IF NOT EXISTS user_taste_profiles (
    user_id              VARCHAR(128) NOT NULL PRIMARY KEY,
    salty                DOUBLE       NOT NULL DEFAULT 0,
    umami                DOUBLE       NOT NULL DEFAULT 0,
    spicy                DOUBLE       NOT NULL DEFAULT 0,
    sweet                DOUBLE       NOT NULL DEFAULT 0,
    sour                 DOUBLE       NOT NULL DEFAULT 0,
    texture_preferences  TEXT         NOT NULL,
    dietary_restrictions TEXT         NOT NULL,
    allergies            TEXT         NOT NULL,
    updated_at           DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

// mysqlDuplicateEntry MySQL 主键冲突错误码
const mysqlDuplicateEntry = 1062

// MySQLProfileStore 以 user_taste_profiles 表保存用户画像，每次保存整行替换
type MySQLProfileStore struct {
	db *sql.DB
}

func NewMySQLProfileStore(db *sql.DB) *MySQLProfileStore {
	return &MySQLProfileStore{db: db}
}

// EnsureSchema 建表
func (s *MySQLProfileStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createProfileTableSQL)
	return err
}

func (s *MySQLProfileStore) Load(ctx context.Context, userID string) (*models.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT user_id, salty, umami, spicy, sweet, sour, texture_preferences, dietary_restrictions, allergies
        FROM user_taste_profiles WHERE user_id=?`, userID)

	var (
		id                                string
		salty, umami, spicy, sweet, sour  float64
		textures, restrictions, allergies sql.NullString
	)
	if err := row.Scan(&id, &salty, &umami, &spicy, &sweet, &sour, &textures, &restrictions, &allergies); err != nil {
		if utils.IsSQLNoRowsError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, &PersistenceError{Op: "load", UserID: userID, Err: err}
	}

	return decodeRecord([]string{
		id,
		formatFloat(salty), formatFloat(umami), formatFloat(spicy), formatFloat(sweet), formatFloat(sour),
		textures.String, restrictions.String, allergies.String,
	})
}

// Save 整行替换，不支持部分字段更新
func (s *MySQLProfileStore) Save(ctx context.Context, profile *models.UserProfile) error {
	r := encodeRecord(profile)
	res, err := s.db.ExecContext(ctx, `
        UPDATE user_taste_profiles
        SET salty=?, umami=?, spicy=?, sweet=?, sour=?, texture_preferences=?, dietary_restrictions=?, allergies=?, updated_at=NOW()
        WHERE user_id=?`,
		r[1], r[2], r[3], r[4], r[5], r[6], r[7], r[8], r[0])
	if err != nil {
		return &PersistenceError{Op: "save", UserID: profile.UserID, Err: err}
	}
	// UPDATE 内容不变时 RowsAffected 为 0，需要再确认记录是否存在
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var count int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM user_taste_profiles WHERE user_id=?`, profile.UserID).Scan(&count); err != nil {
			return &PersistenceError{Op: "save", UserID: profile.UserID, Err: err}
		}
		if count == 0 {
			return ErrProfileNotFound
		}
	}
	logger.Info("用户画像已保存", "user_id", profile.UserID)
	return nil
}

func (s *MySQLProfileStore) Create(ctx context.Context, profile *models.UserProfile, opts CreateOptions) (*models.UserProfile, error) {
	r := encodeRecord(profile)
	query := `
        INSERT INTO user_taste_profiles (user_id, salty, umami, spicy, sweet, sour, texture_preferences, dietary_restrictions, allergies)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if opts.Overwrite {
		query += `
        ON DUPLICATE KEY UPDATE salty=VALUES(salty), umami=VALUES(umami), spicy=VALUES(spicy), sweet=VALUES(sweet), sour=VALUES(sour),
            texture_preferences=VALUES(texture_preferences), dietary_restrictions=VALUES(dietary_restrictions), allergies=VALUES(allergies), updated_at=NOW()`
	}

	_, err := s.db.ExecContext(ctx, query, r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7], r[8])
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return nil, ErrProfileExists
		}
		return nil, &PersistenceError{Op: "create", UserID: profile.UserID, Err: err}
	}
	logger.Info("用户画像已创建", "user_id", profile.UserID, "overwrite", opts.Overwrite)
	return profile, nil
}
