package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/referral-ledger/internal/commission"
	"github.com/referral-ledger/internal/constants"
	"github.com/referral-ledger/internal/logger"
	"github.com/referral-ledger/internal/models"
	"github.com/referral-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// QuarterCell 汇总表单元格
type QuarterCell struct {
	Quarter int          `json:"quarter"`
	Bonus   models.Money `json:"bonus"`
	Paid    bool         `json:"paid"`
}

// YearSummary 推荐人单年汇总
type YearSummary struct {
	Year     int           `json:"year"`
	Quarters []QuarterCell `json:"quarters"`
	Total    models.Money  `json:"total"`
}

// ReferrerSummary 推荐人汇总行
type ReferrerSummary struct {
	Referrer string        `json:"referrer"`
	Years    []YearSummary `json:"years"`
}

// QuarterBonusResult 单个季度的佣金与发放标记
type QuarterBonusResult struct {
	Referrer string       `json:"referrer"`
	Year     int          `json:"year"`
	Quarter  int          `json:"quarter"`
	Bonus    models.Money `json:"bonus"`
	Paid     bool         `json:"paid"`
}

// CascadeFailure 批量标记中失败的年份
type CascadeFailure struct {
	Year    int    `json:"year"`
	Message string `json:"message"`
}

// CascadeResult 批量标记结果，已写入的年份不会回滚
type CascadeResult struct {
	Applied []int            `json:"applied"`
	Failed  []CascadeFailure `json:"failed"`
}

// LedgerService 账本门面，组合发票、佣金与发放标记
type LedgerService struct {
	invoices    *InvoiceService
	bonuses     *BonusService
	clientNames *ClientNameService
	guard       OwnershipGuard
}

// NewLedgerService 创建账本门面
func NewLedgerService(invoices *InvoiceService, bonuses *BonusService, clientNames *ClientNameService, guard OwnershipGuard) *LedgerService {
	return &LedgerService{
		invoices:    invoices,
		bonuses:     bonuses,
		clientNames: clientNames,
		guard:       guard,
	}
}

// RecordInvoice 创建发票并登记客户名称
func (s *LedgerService) RecordInvoice(ctx context.Context, input InvoiceInput, actor string) (*models.Invoice, error) {
	invoice, err := s.invoices.Create(input, actor)
	if err != nil {
		return nil, err
	}
	// 客户名称只用于输入提示，登记失败不影响发票
	if _, err := s.clientNames.Record(ctx, invoice.ClientName); err != nil {
		logger.Warnw("client_name_record_failed",
			"invoice_id", invoice.ID,
			"client_name", invoice.ClientName,
			"error", err,
		)
	}
	return invoice, nil
}

// ToggleInvoicePaid 修改发票结清状态
func (s *LedgerService) ToggleInvoicePaid(id uint, paid bool, actor string) (*models.Invoice, error) {
	return s.invoices.SetPaid(id, paid, actor)
}

// ListInvoices 发票列表
func (s *LedgerService) ListInvoices(filter repository.InvoiceListFilter) ([]models.Invoice, error) {
	filter.Referrer = strings.TrimSpace(filter.Referrer)
	return s.invoices.List(filter)
}

// GetInvoice 发票详情
func (s *LedgerService) GetInvoice(id uint) (*models.Invoice, error) {
	return s.invoices.Get(id)
}

// UpdateInvoice 局部更新发票
func (s *LedgerService) UpdateInvoice(id uint, patch InvoicePatch, actor string) (*models.Invoice, error) {
	return s.invoices.Update(id, patch, actor)
}

// DeleteInvoice 删除发票
func (s *LedgerService) DeleteInvoice(id uint, actor string) error {
	return s.invoices.Delete(id, actor)
}

// QuarterBonus 单个季度的佣金与发放标记
func (s *LedgerService) QuarterBonus(referrer string, year, quarter int) (*QuarterBonusResult, error) {
	referrer = strings.TrimSpace(referrer)
	if err := validatePeriod(referrer, year, quarter); err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(repository.InvoiceListFilter{Referrer: referrer, Year: year})
	if err != nil {
		return nil, err
	}
	paid, err := s.bonuses.IsQuarterPaid(referrer, year, quarter)
	if err != nil {
		return nil, err
	}
	return &QuarterBonusResult{
		Referrer: referrer,
		Year:     year,
		Quarter:  quarter,
		Bonus:    commission.Round(commission.QuarterlyBonus(invoices, referrer, year, quarter)),
		Paid:     paid,
	}, nil
}

// BonusStatusMap 全部发放标记
func (s *LedgerService) BonusStatusMap(ctx context.Context) (map[string]map[string]bool, error) {
	return s.bonuses.StatusMap(ctx)
}

// SetQuarterPaid 写入单个季度发放标记
func (s *LedgerService) SetQuarterPaid(ctx context.Context, referrer string, year, quarter int, paid bool, actor string) error {
	return s.bonuses.SetQuarterPaid(ctx, referrer, year, quarter, paid, actor)
}

// ListClientNames 客户名称列表
func (s *LedgerService) ListClientNames(ctx context.Context) ([]string, error) {
	return s.clientNames.List(ctx)
}

// SearchClientNames 按前缀查找客户名称
func (s *LedgerService) SearchClientNames(prefix string, limit int) ([]string, error) {
	return s.clientNames.Search(prefix, limit)
}

// RecordClientName 登记客户名称
func (s *LedgerService) RecordClientName(ctx context.Context, name string) (string, error) {
	return s.clientNames.Record(ctx, name)
}

// Summary 按推荐人、年份汇总季度佣金
// 推荐人升序，年份倒序，每年固定 4 个季度
func (s *LedgerService) Summary(ctx context.Context, filter repository.InvoiceListFilter) ([]ReferrerSummary, error) {
	invoices, err := s.ListInvoices(filter)
	if err != nil {
		return nil, err
	}
	statuses, err := s.summaryPaidFlags(ctx, filter.Referrer)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]map[int][]models.Invoice)
	for _, invoice := range invoices {
		years, ok := grouped[invoice.Referrer]
		if !ok {
			years = make(map[int][]models.Invoice)
			grouped[invoice.Referrer] = years
		}
		years[invoice.Year] = append(years[invoice.Year], invoice)
	}

	referrers := make([]string, 0, len(grouped))
	for referrer := range grouped {
		referrers = append(referrers, referrer)
	}
	sort.Strings(referrers)

	result := make([]ReferrerSummary, 0, len(referrers))
	for _, referrer := range referrers {
		byYear := grouped[referrer]
		years := make([]int, 0, len(byYear))
		for year := range byYear {
			years = append(years, year)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(years)))

		row := ReferrerSummary{Referrer: referrer, Years: make([]YearSummary, 0, len(years))}
		for _, year := range years {
			row.Years = append(row.Years, buildYearSummary(byYear[year], referrer, year, statuses[referrer]))
		}
		result = append(result, row)
	}
	return result, nil
}

// summaryPaidFlags 指定推荐人时只读该推荐人的标记，否则读全量快照
func (s *LedgerService) summaryPaidFlags(ctx context.Context, referrer string) (map[string]map[string]bool, error) {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return s.bonuses.StatusMap(ctx)
	}
	flags, err := s.bonuses.ReferrerStatus(referrer)
	if err != nil {
		return nil, err
	}
	return map[string]map[string]bool{referrer: flags}, nil
}

func buildYearSummary(invoices []models.Invoice, referrer string, year int, paidFlags map[string]bool) YearSummary {
	summary := YearSummary{Year: year, Quarters: make([]QuarterCell, 0, constants.QuartersPerYear)}
	total := decimal.Zero
	for quarter := 1; quarter <= constants.QuartersPerYear; quarter++ {
		bonus := commission.QuarterlyBonus(invoices, referrer, year, quarter)
		total = total.Add(bonus)
		summary.Quarters = append(summary.Quarters, QuarterCell{
			Quarter: quarter,
			Bonus:   commission.Round(bonus),
			Paid:    paidFlags[models.BonusPeriodKey(year, quarter)],
		})
	}
	summary.Total = commission.Round(total)
	return summary
}

// ToggleQuarterPaid 对推荐人多个年份的同一季度批量写入发放标记
// years 为空时取该推荐人有发票的全部年份；逐年独立写入，失败不中断也不回滚
func (s *LedgerService) ToggleQuarterPaid(ctx context.Context, referrer string, quarter int, paid bool, years []int, actor string) (*CascadeResult, error) {
	referrer = strings.TrimSpace(referrer)
	actor = strings.TrimSpace(actor)
	if err := validatePeriod(referrer, constants.MinInvoiceYear, quarter); err != nil {
		return nil, err
	}
	if err := validateCascadeYears(years); err != nil {
		return nil, err
	}
	allowed, err := s.guard.CanSetBonusStatus(actor, referrer)
	if err != nil {
		return nil, storeError("authorize bonus status", err)
	}
	if !allowed {
		return nil, bonusNotAuthorized(referrer, actor, 0, quarter)
	}

	if len(years) == 0 {
		years, err = s.invoices.ListYears(referrer)
		if err != nil {
			return nil, err
		}
	}
	years = uniqueSortedYears(years)

	result := &CascadeResult{Applied: make([]int, 0, len(years)), Failed: make([]CascadeFailure, 0)}
	var errs []error
	for _, year := range years {
		if err := s.bonuses.SetQuarterPaid(ctx, referrer, year, quarter, paid, actor); err != nil {
			logger.Warnw("bonus_status_cascade_year_failed",
				"referrer", referrer,
				"year", year,
				"quarter", quarter,
				"paid", paid,
				"error", err,
			)
			result.Failed = append(result.Failed, CascadeFailure{Year: year, Message: PublicMessage(err)})
			errs = append(errs, err)
			continue
		}
		result.Applied = append(result.Applied, year)
	}
	return result, errors.Join(errs...)
}

// validateCascadeYears 显式年份须全部合法，任何一个不合法则整批拒绝
func validateCascadeYears(years []int) error {
	invalid := make([]string, 0)
	for _, year := range years {
		if year < constants.MinInvoiceYear || year > constants.MaxInvoiceYear {
			invalid = append(invalid, strconv.Itoa(year))
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	return &LedgerError{
		Kind:    ErrValidation,
		Message: "invalid bonus period",
		Detail:  fmt.Sprintf("years must be between 1 and 9999, got %s", strings.Join(invalid, ", ")),
		Fields:  []string{"years"},
	}
}

func uniqueSortedYears(years []int) []int {
	seen := make(map[int]struct{}, len(years))
	result := make([]int, 0, len(years))
	for _, year := range years {
		if _, ok := seen[year]; ok {
			continue
		}
		seen[year] = struct{}{}
		result = append(result, year)
	}
	sort.Ints(result)
	return result
}
