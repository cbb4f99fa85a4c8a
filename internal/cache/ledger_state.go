package cache

import (
	"context"
	"time"

	"github.com/referral-ledger/internal/constants"
)

// BonusStatusMap referrer -> {"year-quarter": paid}
type BonusStatusMap map[string]map[string]bool

// GetBonusStatusMap 读取发放标记快照
// 未命中时返回读取前的版本号，回填须携带该版本号
func GetBonusStatusMap(ctx context.Context) (BonusStatusMap, int64, bool, error) {
	version, err := ReadVersion(ctx, constants.CacheKeyBonusStatusMap)
	if err != nil {
		return nil, 0, false, err
	}
	var snapshot BonusStatusMap
	hit, err := GetJSON(ctx, constants.CacheKeyBonusStatusMap, &snapshot)
	if err != nil || !hit {
		return nil, version, false, err
	}
	return snapshot, version, true, nil
}

// SetBonusStatusMap 回填发放标记快照，期间发生过失效时不写入
func SetBonusStatusMap(ctx context.Context, version int64, snapshot BonusStatusMap, ttl time.Duration) (bool, error) {
	return SetJSONIfVersion(ctx, constants.CacheKeyBonusStatusMap, version, snapshot, ttl)
}

// InvalidateBonusStatusMap 发放标记变更后失效
func InvalidateBonusStatusMap(ctx context.Context) error {
	return Invalidate(ctx, constants.CacheKeyBonusStatusMap)
}

// GetClientNames 读取客户名称列表
func GetClientNames(ctx context.Context) ([]string, int64, bool, error) {
	version, err := ReadVersion(ctx, constants.CacheKeyClientNames)
	if err != nil {
		return nil, 0, false, err
	}
	var names []string
	hit, err := GetJSON(ctx, constants.CacheKeyClientNames, &names)
	if err != nil || !hit {
		return nil, version, false, err
	}
	return names, version, true, nil
}

// SetClientNames 回填客户名称列表
func SetClientNames(ctx context.Context, version int64, names []string, ttl time.Duration) (bool, error) {
	return SetJSONIfVersion(ctx, constants.CacheKeyClientNames, version, names, ttl)
}

// InvalidateClientNames 客户名称变更后失效
func InvalidateClientNames(ctx context.Context) error {
	return Invalidate(ctx, constants.CacheKeyClientNames)
}
