package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"flavor_ai/logger"
	"flavor_ai/models"
)

// CSVProfileStore 以单个CSV文件保存所有用户画像，首行为表头，每个用户一行
type CSVProfileStore struct {
	path string
	mu   sync.Mutex // 保护整个文件的读写
}

func NewCSVProfileStore(path string) *CSVProfileStore {
	return &CSVProfileStore{path: path}
}

func (s *CSVProfileStore) Load(ctx context.Context, userID string) (*models.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrProfileNotFound
		}
		return nil, &PersistenceError{Op: "load", UserID: userID, Err: err}
	}
	for _, row := range rows {
		if row[0] != userID {
			continue
		}
		p, err := decodeRecord(row)
		if err != nil {
			return nil, &PersistenceError{Op: "load", UserID: userID, Err: err}
		}
		return p, nil
	}
	return nil, ErrProfileNotFound
}

// Save 整条替换用户的记录，用户不存在时返回 ErrProfileNotFound
func (s *CSVProfileStore) Save(ctx context.Context, profile *models.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrProfileNotFound
		}
		return &PersistenceError{Op: "save", UserID: profile.UserID, Err: err}
	}

	idx := indexOfUser(rows, profile.UserID)
	if idx < 0 {
		logger.Warn("CSV中不存在该用户，未保存", "user_id", profile.UserID, "path", s.path)
		return ErrProfileNotFound
	}
	rows[idx] = encodeRecord(profile)

	if err := s.writeRows(rows); err != nil {
		return &PersistenceError{Op: "save", UserID: profile.UserID, Err: err}
	}
	logger.Info("用户画像已保存", "user_id", profile.UserID, "path", s.path)
	return nil
}

func (s *CSVProfileStore) Create(ctx context.Context, profile *models.UserProfile, opts CreateOptions) (*models.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &PersistenceError{Op: "create", UserID: profile.UserID, Err: err}
	}

	record := encodeRecord(profile)
	if idx := indexOfUser(rows, profile.UserID); idx >= 0 {
		if !opts.Overwrite {
			return nil, ErrProfileExists
		}
		logger.Warn("覆盖已存在的用户画像", "user_id", profile.UserID)
		rows[idx] = record
	} else {
		rows = append(rows, record)
	}

	if err := s.writeRows(rows); err != nil {
		return nil, &PersistenceError{Op: "create", UserID: profile.UserID, Err: err}
	}
	logger.Info("用户画像已创建", "user_id", profile.UserID, "path", s.path)
	return profile, nil
}

// readRows 读取除表头外的所有行
func (s *CSVProfileStore) readRows() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if len(header) < len(profileColumns) {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < len(profileColumns) {
			return nil, fmt.Errorf("row for %q has %d columns", row[0], len(row))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeRows 写入临时文件后重命名，整文件替换
func (s *CSVProfileStore) writeRows(rows [][]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(profileColumns); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func indexOfUser(rows [][]string, userID string) int {
	for i, row := range rows {
		if row[0] == userID {
			return i
		}
	}
	return -1
}
