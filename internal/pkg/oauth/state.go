package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	statePrefix = "oauth:state:"
	stateExpiry = 10 * time.Minute
)

var ErrInvalidState = errors.New("无效或已过期的 state 参数")

// StateStore 基于 Redis 的 OAuth state 存储，state 一次性使用
type StateStore struct {
	rdb *redis.Client
}

func NewStateStore(rdb *redis.Client) *StateStore {
	return &StateStore{rdb: rdb}
}

// GenerateState 生成随机 state 并记录回调地址
func (s *StateStore) GenerateState(ctx context.Context, redirectURI string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成随机 state 失败: %w", err)
	}
	state := hex.EncodeToString(buf)

	if err := s.rdb.Set(ctx, statePrefix+state, redirectURI, stateExpiry).Err(); err != nil {
		return "", fmt.Errorf("写入 state 失败: %w", err)
	}
	return state, nil
}

// ValidateState 校验并消费 state，返回对应的回调地址
func (s *StateStore) ValidateState(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", ErrInvalidState
	}

	// GETDEL 保证 state 只能用一次，防重放
	redirectURI, err := s.rdb.GetDel(ctx, statePrefix+state).Result()
	if err == redis.Nil {
		return "", ErrInvalidState
	}
	if err != nil {
		return "", fmt.Errorf("读取 state 失败: %w", err)
	}
	return redirectURI, nil
}
