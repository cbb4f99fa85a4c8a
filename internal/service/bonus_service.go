package service

import (
	"context"
	"strings"
	"time"

	"github.com/referral-ledger/internal/cache"
	"github.com/referral-ledger/internal/commission"
	"github.com/referral-ledger/internal/constants"
	"github.com/referral-ledger/internal/logger"
	"github.com/referral-ledger/internal/models"
	"github.com/referral-ledger/internal/repository"
)

// BonusService 季度佣金发放标记服务
type BonusService struct {
	repo     repository.BonusStatusRepository
	guard    OwnershipGuard
	cacheTTL time.Duration
}

// NewBonusService 创建发放标记服务
func NewBonusService(repo repository.BonusStatusRepository, guard OwnershipGuard, cacheTTL time.Duration) *BonusService {
	return &BonusService{repo: repo, guard: guard, cacheTTL: cacheTTL}
}

// IsQuarterPaid 未写入过的季度返回 false
func (s *BonusService) IsQuarterPaid(referrer string, year, quarter int) (bool, error) {
	status, err := s.repo.Get(strings.TrimSpace(referrer), year, quarter)
	if err != nil {
		return false, storeError("load bonus status", err)
	}
	if status == nil {
		return false, nil
	}
	return status.Paid, nil
}

// SetQuarterPaid 推荐人本人写入季度发放标记，重复写入结果一致
func (s *BonusService) SetQuarterPaid(ctx context.Context, referrer string, year, quarter int, paid bool, actor string) error {
	referrer = strings.TrimSpace(referrer)
	actor = strings.TrimSpace(actor)
	if err := validatePeriod(referrer, year, quarter); err != nil {
		return err
	}

	allowed, err := s.guard.CanSetBonusStatus(actor, referrer)
	if err != nil {
		return storeError("authorize bonus status", err)
	}
	if !allowed {
		return bonusNotAuthorized(referrer, actor, year, quarter)
	}

	if err := s.repo.Upsert(&models.BonusPaidStatus{
		Referrer: referrer,
		Year:     year,
		Quarter:  quarter,
		Paid:     paid,
	}); err != nil {
		return storeError("save bonus status", err)
	}
	if err := cache.InvalidateBonusStatusMap(ctx); err != nil {
		logger.Warnw("bonus_status_cache_invalidate_failed", "referrer", referrer, "error", err)
	}
	return nil
}

// StatusMap referrer -> {"year-quarter": paid}
// 回填携带读库前的版本号，读库期间发生写入时放弃回填
func (s *BonusService) StatusMap(ctx context.Context) (map[string]map[string]bool, error) {
	snapshot, version, hit, err := cache.GetBonusStatusMap(ctx)
	if err != nil {
		logger.Warnw("bonus_status_cache_read_failed", "error", err)
	} else if hit {
		return snapshot, nil
	}

	statuses, err := s.repo.List()
	if err != nil {
		return nil, storeError("list bonus status", err)
	}
	result := make(map[string]map[string]bool)
	for _, status := range statuses {
		periods, ok := result[status.Referrer]
		if !ok {
			periods = make(map[string]bool)
			result[status.Referrer] = periods
		}
		periods[status.PeriodKey()] = status.Paid
	}

	stored, err := cache.SetBonusStatusMap(ctx, version, result, s.cacheTTL)
	if err != nil {
		logger.Warnw("bonus_status_cache_write_failed", "error", err)
	} else if !stored && cache.Enabled() {
		logger.Debugw("bonus_status_cache_fill_skipped", "version", version)
	}
	return result, nil
}

// ReferrerStatus 单个推荐人的季度标记，直接读库
func (s *BonusService) ReferrerStatus(referrer string) (map[string]bool, error) {
	statuses, err := s.repo.ListByReferrer(strings.TrimSpace(referrer))
	if err != nil {
		return nil, storeError("list bonus status", err)
	}
	result := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		result[status.PeriodKey()] = status.Paid
	}
	return result, nil
}

func validatePeriod(referrer string, year, quarter int) error {
	fields := make([]string, 0, 3)
	reasons := make([]string, 0, 3)
	if referrer == "" {
		fields = append(fields, "referrer")
		reasons = append(reasons, "referrer is required")
	}
	if year < constants.MinInvoiceYear || year > constants.MaxInvoiceYear {
		fields = append(fields, "year")
		reasons = append(reasons, "year must be between 1 and 9999")
	}
	if !commission.ValidQuarter(quarter) {
		fields = append(fields, "quarter")
		reasons = append(reasons, "quarter must be between 1 and 4")
	}
	if len(fields) == 0 {
		return nil
	}
	return &LedgerError{
		Kind:    ErrValidation,
		Message: "invalid bonus period",
		Detail:  strings.Join(reasons, "; "),
		Fields:  fields,
	}
}
