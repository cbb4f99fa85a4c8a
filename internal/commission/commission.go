// Package commission 计算推荐人季度佣金
//
// 纯函数，无持久化与副作用。中间求和保持 decimal 全精度，
// 只在展示时通过 Round 保留 2 位小数。
package commission

import (
	"strings"

	"github.com/referral-ledger/internal/constants"
	"github.com/referral-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// QuarterOfMonth 月份所属季度，非法月份返回 0
func QuarterOfMonth(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return (month-1)/constants.MonthsPerQuarter + 1
}

// QuarterMonths 季度包含的首末月份，非法季度返回 (0, 0)
func QuarterMonths(quarter int) (int, int) {
	if !ValidQuarter(quarter) {
		return 0, 0
	}
	last := quarter * constants.MonthsPerQuarter
	return last - constants.MonthsPerQuarter + 1, last
}

// ValidQuarter 季度是否在 1..4
func ValidQuarter(quarter int) bool {
	return quarter >= 1 && quarter <= constants.QuartersPerYear
}

// Qualifies 发票是否计入指定推荐人、年份、季度的佣金
func Qualifies(invoice models.Invoice, referrer string, year, quarter int) bool {
	if !invoice.Paid {
		return false
	}
	if invoice.Year != year || invoice.Referrer != strings.TrimSpace(referrer) {
		return false
	}
	first, last := QuarterMonths(quarter)
	return first > 0 && invoice.Month >= first && invoice.Month <= last
}

// Contribution 单张发票的佣金 amount * bonusPercentage
func Contribution(invoice models.Invoice) decimal.Decimal {
	return invoice.Amount.Decimal.Mul(invoice.BonusPercentage.Decimal)
}

// QuarterlyBonus 汇总已结清发票的季度佣金，无匹配返回 0
func QuarterlyBonus(invoices []models.Invoice, referrer string, year, quarter int) decimal.Decimal {
	total := decimal.Zero
	if !ValidQuarter(quarter) {
		return total
	}
	for _, invoice := range invoices {
		if Qualifies(invoice, referrer, year, quarter) {
			total = total.Add(Contribution(invoice))
		}
	}
	return total
}

// Round 展示用取整
func Round(amount decimal.Decimal) models.Money {
	return models.NewMoneyFromDecimal(amount)
}
