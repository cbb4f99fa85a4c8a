package service

import (
	"context"
	"strings"
	"time"

	"github.com/referral-ledger/internal/cache"
	"github.com/referral-ledger/internal/logger"
	"github.com/referral-ledger/internal/repository"
)

const maxClientNameSearchLimit = 50

// ClientNameService 客户名称登记服务
type ClientNameService struct {
	repo     repository.ClientNameRepository
	cacheTTL time.Duration
}

// NewClientNameService 创建客户名称服务
func NewClientNameService(repo repository.ClientNameRepository, cacheTTL time.Duration) *ClientNameService {
	return &ClientNameService{repo: repo, cacheTTL: cacheTTL}
}

// List 已登记的客户名称
func (s *ClientNameService) List(ctx context.Context) ([]string, error) {
	cached, version, hit, err := cache.GetClientNames(ctx)
	if err != nil {
		logger.Warnw("client_names_cache_read_failed", "error", err)
	} else if hit {
		return cached, nil
	}

	names, err := s.repo.List()
	if err != nil {
		return nil, storeError("list client names", err)
	}
	if _, err := cache.SetClientNames(ctx, version, names, s.cacheTTL); err != nil {
		logger.Warnw("client_names_cache_write_failed", "error", err)
	}
	return names, nil
}

// Search 按前缀查找客户名称，不走缓存
func (s *ClientNameService) Search(prefix string, limit int) ([]string, error) {
	if limit <= 0 || limit > maxClientNameSearchLimit {
		limit = maxClientNameSearchLimit
	}
	names, err := s.repo.Search(prefix, limit)
	if err != nil {
		return nil, storeError("search client names", err)
	}
	return names, nil
}

// Record 登记客户名称，重复名称忽略
func (s *ClientNameService) Record(ctx context.Context, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", invalidInputError("invalid client name", "name is required")
	}
	if len(trimmed) > 255 {
		return "", invalidInputError("invalid client name", "name must be at most 255 characters")
	}
	if err := s.repo.Record(trimmed); err != nil {
		return "", storeError("record client name", err)
	}
	if err := cache.InvalidateClientNames(ctx); err != nil {
		logger.Warnw("client_names_cache_invalidate_failed", "error", err)
	}
	return trimmed, nil
}
