package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"flavor_ai/models"
)

var (
	// ErrProfileNotFound 用户画像不存在（文件不存在或没有对应行）
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrProfileExists 建档时用户画像已存在
	ErrProfileExists = errors.New("user profile already exists")
)

// PersistenceError 画像读写失败，必须向调用方暴露
type PersistenceError struct {
	Op     string
	UserID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("profile store %s %s: %v", e.Op, e.UserID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// CreateOptions 建档选项
type CreateOptions struct {
	Overwrite bool // 已存在时是否覆盖
}

// ProfileStore 用户画像存储，每个用户一条完整记录，保存时整条替换
type ProfileStore interface {
	Load(ctx context.Context, userID string) (*models.UserProfile, error)
	Save(ctx context.Context, profile *models.UserProfile) error
	Create(ctx context.Context, profile *models.UserProfile, opts CreateOptions) (*models.UserProfile, error)
}

// UserLocks 按用户加锁，保护 读取-修改-保存 过程
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*userLock)}
}

// Lock 获取用户锁，返回解锁函数
func (l *UserLocks) Lock(userID string) func() {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
