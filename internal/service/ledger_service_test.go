package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/referral-ledger/internal/authz"
	"github.com/referral-ledger/internal/models"
	"github.com/referral-ledger/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openLedgerServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate ledger models failed: %v", err)
	}
	return db
}

func newLedgerServiceForTest(t *testing.T, db *gorm.DB, bonusRepo repository.BonusStatusRepository) *LedgerService {
	t.Helper()
	guard, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := guard.BootstrapOwnershipPolicies(); err != nil {
		t.Fatalf("bootstrap policies failed: %v", err)
	}
	if bonusRepo == nil {
		bonusRepo = repository.NewBonusStatusRepository(db)
	}
	invoices := NewInvoiceService(repository.NewInvoiceRepository(db), guard)
	bonuses := NewBonusService(bonusRepo, guard, 0)
	clientNames := NewClientNameService(repository.NewClientNameRepository(db), 0)
	return NewLedgerService(invoices, bonuses, clientNames, guard)
}

func setupLedgerServiceTest(t *testing.T) (*LedgerService, *gorm.DB) {
	t.Helper()
	db := openLedgerServiceDB(t)
	return newLedgerServiceForTest(t, db, nil), db
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func moneyPtr(v string) *models.Money {
	m := models.Money{Decimal: decimal.RequireFromString(v)}
	return &m
}

func ratePtr(v string) *models.Rate {
	r := models.Rate{Decimal: decimal.RequireFromString(v)}
	return &r
}

func newInvoiceInput(referrer string, year, month int, amount string, paid bool) InvoiceInput {
	return InvoiceInput{
		Year:            intPtr(year),
		Month:           intPtr(month),
		ClientName:      strPtr("Acme"),
		Amount:          moneyPtr(amount),
		Referrer:        strPtr(referrer),
		BonusPercentage: ratePtr("0.10"),
		Paid:            boolPtr(paid),
	}
}

func mustRecordInvoice(t *testing.T, svc *LedgerService, input InvoiceInput) *models.Invoice {
	t.Helper()
	invoice, err := svc.RecordInvoice(context.Background(), input, "")
	if err != nil {
		t.Fatalf("record invoice failed: %v", err)
	}
	return invoice
}

func TestRecordInvoiceSetsOwnerAndClientName(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	ctx := context.Background()

	input := newInvoiceInput("X", 2024, 2, "1000", true)
	input.ClientName = strPtr("  Globex  ")
	invoice, err := svc.RecordInvoice(ctx, input, "X")
	if err != nil {
		t.Fatalf("record invoice failed: %v", err)
	}
	if invoice.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if invoice.CreatedBy != "X" || invoice.Owner() != "X" {
		t.Fatalf("owner want X got %q", invoice.CreatedBy)
	}
	if invoice.ClientName != "Globex" {
		t.Fatalf("client name want Globex got %q", invoice.ClientName)
	}

	names, err := svc.ListClientNames(ctx)
	if err != nil {
		t.Fatalf("list client names failed: %v", err)
	}
	if len(names) != 1 || names[0] != "Globex" {
		t.Fatalf("client names want [Globex] got %v", names)
	}
}

func TestRecordInvoiceRejectsForeignReferrer(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)

	_, err := svc.RecordInvoice(context.Background(), newInvoiceInput("X", 2024, 2, "1000", true), "Y")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("want not authorized got %v", err)
	}
}

func TestRecordInvoiceDefaultsReferrerToActor(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)

	input := newInvoiceInput("", 2024, 2, "1000", true)
	input.Referrer = nil
	invoice, err := svc.RecordInvoice(context.Background(), input, "Z")
	if err != nil {
		t.Fatalf("record invoice failed: %v", err)
	}
	if invoice.Referrer != "Z" || invoice.CreatedBy != "Z" {
		t.Fatalf("referrer/createdBy want Z got %q/%q", invoice.Referrer, invoice.CreatedBy)
	}
}

func TestRecordInvoiceValidation(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)

	cases := []struct {
		name   string
		mutate func(*InvoiceInput)
		field  string
	}{
		{"month_zero", func(in *InvoiceInput) { in.Month = intPtr(0) }, "month"},
		{"month_13", func(in *InvoiceInput) { in.Month = intPtr(13) }, "month"},
		{"year_missing", func(in *InvoiceInput) { in.Year = nil }, "year"},
		{"year_too_large", func(in *InvoiceInput) { in.Year = intPtr(10000) }, "year"},
		{"amount_zero", func(in *InvoiceInput) { in.Amount = moneyPtr("0") }, "amount"},
		{"amount_negative", func(in *InvoiceInput) { in.Amount = moneyPtr("-5") }, "amount"},
		{"rate_above_one", func(in *InvoiceInput) { in.BonusPercentage = ratePtr("1.5") }, "bonusPercentage"},
		{"rate_negative", func(in *InvoiceInput) { in.BonusPercentage = ratePtr("-0.1") }, "bonusPercentage"},
		{"amount_three_places", func(in *InvoiceInput) { in.Amount = moneyPtr("1000.005") }, "amount"},
		{"rate_five_places", func(in *InvoiceInput) { in.BonusPercentage = ratePtr("0.12345") }, "bonusPercentage"},
		{"client_blank", func(in *InvoiceInput) { in.ClientName = strPtr("   ") }, "clientName"},
		{"referrer_missing", func(in *InvoiceInput) { in.Referrer = nil }, "referrer"},
		{"created_by_mismatch", func(in *InvoiceInput) { in.CreatedBy = strPtr("Y") }, "createdBy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := newInvoiceInput("X", 2024, 2, "1000", true)
			tc.mutate(&input)
			_, err := svc.RecordInvoice(context.Background(), input, "")
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("want validation error got %v", err)
			}
			ledgerErr, ok := AsLedgerError(err)
			if !ok {
				t.Fatalf("want ledger error got %T", err)
			}
			found := false
			for _, field := range ledgerErr.Fields {
				if field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("fields want %s got %v", tc.field, ledgerErr.Fields)
			}
		})
	}

	invoices, err := svc.ListInvoices(repository.InvoiceListFilter{})
	if err != nil {
		t.Fatalf("list invoices failed: %v", err)
	}
	if len(invoices) != 0 {
		t.Fatalf("invalid input should not be stored, got %d invoices", len(invoices))
	}
}

func TestRecordInvoiceAcceptsBoundaryValues(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)

	input := newInvoiceInput("X", 9999, 12, "0.01", false)
	input.BonusPercentage = ratePtr("1")
	mustRecordInvoice(t, svc, input)

	input = newInvoiceInput("X", 1, 1, "1", false)
	input.BonusPercentage = ratePtr("0")
	mustRecordInvoice(t, svc, input)
}

func TestRecordInvoiceKeepsExactRate(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)

	input := newInvoiceInput("X", 2024, 1, "1000", true)
	input.BonusPercentage = ratePtr("0.1234")
	input.Amount = moneyPtr("1000.500")
	mustRecordInvoice(t, svc, input)

	result, err := svc.QuarterBonus("X", 2024, 1)
	if err != nil {
		t.Fatalf("quarter bonus failed: %v", err)
	}
	if result.Bonus.String() != "123.46" {
		t.Fatalf("bonus want 123.46 got %s", result.Bonus.String())
	}
}

func TestUpdateInvoiceRejectsExcessScale(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	invoice := mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 2, "1000", false))

	_, err := svc.UpdateInvoice(invoice.ID, InvoicePatch{BonusPercentage: ratePtr("0.12345")}, "X")
	ledgerErr, ok := AsLedgerError(err)
	if !ok || !errors.Is(err, ErrValidation) {
		t.Fatalf("want validation error got %v", err)
	}
	if len(ledgerErr.Fields) != 1 || ledgerErr.Fields[0] != "bonusPercentage" {
		t.Fatalf("fields want [bonusPercentage] got %v", ledgerErr.Fields)
	}

	stored, err := svc.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("get invoice failed: %v", err)
	}
	if stored.BonusPercentage.String() != "0.1" {
		t.Fatalf("rate want 0.1 got %s", stored.BonusPercentage.String())
	}
}

func TestUpdateInvoiceByNonOwnerLeavesInvoiceUnchanged(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	invoice := mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 2, "1000", true))

	_, err := svc.UpdateInvoice(invoice.ID, InvoicePatch{Amount: moneyPtr("5000")}, "Y")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("want not authorized got %v", err)
	}

	stored, err := svc.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("get invoice failed: %v", err)
	}
	if stored.Amount.String() != "1000.00" {
		t.Fatalf("amount want 1000.00 got %s", stored.Amount.String())
	}
}

func TestUpdateInvoiceMergesPartialPatch(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	invoice := mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 2, "1000", false))

	updated, err := svc.UpdateInvoice(invoice.ID, InvoicePatch{ClientName: strPtr("Initech"), Month: intPtr(5)}, "X")
	if err != nil {
		t.Fatalf("update invoice failed: %v", err)
	}
	if updated.ClientName != "Initech" || updated.Month != 5 {
		t.Fatalf("patched fields not applied: %+v", updated)
	}
	if updated.Amount.String() != "1000.00" || updated.Year != 2024 || updated.Paid {
		t.Fatalf("unspecified fields should be unchanged: %+v", updated)
	}
	if updated.Referrer != "X" || updated.CreatedBy != "X" {
		t.Fatalf("owner fields changed: %q/%q", updated.Referrer, updated.CreatedBy)
	}
}

func TestUpdateInvoiceRejectsOwnerChange(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	invoice := mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 2, "1000", false))

	_, err := svc.UpdateInvoice(invoice.ID, InvoicePatch{Referrer: strPtr("Y")}, "X")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want validation error got %v", err)
	}
	_, err = svc.UpdateInvoice(invoice.ID, InvoicePatch{CreatedBy: strPtr("Y"), Paid: boolPtr(true)}, "X")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want validation error got %v", err)
	}

	// 同值视为未修改
	if _, err := svc.UpdateInvoice(invoice.ID, InvoicePatch{Referrer: strPtr("X"), Paid: boolPtr(true)}, "X"); err != nil {
		t.Fatalf("update with unchanged referrer failed: %v", err)
	}
}

func TestUpdateInvoiceNotFoundAndInvalidPatch(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	invoice := mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 2, "1000", false))

	if _, err := svc.UpdateInvoice(invoice.ID+100, InvoicePatch{Paid: boolPtr(true)}, "X"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want not found got %v", err)
	}
	if _, err := svc.UpdateInvoice(invoice.ID, InvoicePatch{Month: intPtr(13)}, "X"); !errors.Is(err, ErrValidation) {
		t.Fatalf("want validation error got %v", err)
	}
}

func TestToggleInvoicePaid(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	invoice := mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 2, "1000", false))

	updated, err := svc.ToggleInvoicePaid(invoice.ID, true, "X")
	if err != nil {
		t.Fatalf("toggle paid failed: %v", err)
	}
	if !updated.Paid {
		t.Fatalf("invoice should be paid")
	}
	if _, err := svc.ToggleInvoicePaid(invoice.ID, false, ""); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("empty identity want not authorized got %v", err)
	}
}

func TestDeleteInvoice(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	first := mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 2, "1000", false))

	if err := svc.DeleteInvoice(first.ID, "Y"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("want not authorized got %v", err)
	}
	if err := svc.DeleteInvoice(first.ID, "X"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetInvoice(first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted invoice want not found got %v", err)
	}
	if err := svc.DeleteInvoice(first.ID, "X"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete want not found got %v", err)
	}

	second := mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 3, "500", false))
	if second.ID == first.ID {
		t.Fatalf("deleted id %d should not be reused", first.ID)
	}
}

func TestQuarterBonusScenarios(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 2, "1000", true))
	mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 3, "333.33", false))

	result, err := svc.QuarterBonus("X", 2024, 1)
	if err != nil {
		t.Fatalf("quarter bonus failed: %v", err)
	}
	if result.Bonus.String() != "100.00" {
		t.Fatalf("bonus want 100.00 got %s", result.Bonus.String())
	}
	if result.Paid {
		t.Fatalf("never written quarter should default to unpaid")
	}

	if _, err := svc.QuarterBonus("X", 2024, 5); !errors.Is(err, ErrValidation) {
		t.Fatalf("quarter 5 want validation error got %v", err)
	}
}

func TestSetQuarterPaidIsIdempotentAndOwnerOnly(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.SetQuarterPaid(ctx, "X", 2024, 2, true, "X"); err != nil {
			t.Fatalf("set quarter paid #%d failed: %v", i, err)
		}
	}
	statuses, err := svc.BonusStatusMap(ctx)
	if err != nil {
		t.Fatalf("status map failed: %v", err)
	}
	if len(statuses["X"]) != 1 || !statuses["X"]["2024-2"] {
		t.Fatalf("status map want {X:{2024-2:true}} got %v", statuses)
	}

	if err := svc.SetQuarterPaid(ctx, "X", 2024, 2, false, "Y"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("want not authorized got %v", err)
	}
	if err := svc.SetQuarterPaid(ctx, "X", 2024, 0, true, "X"); !errors.Is(err, ErrValidation) {
		t.Fatalf("quarter 0 want validation error got %v", err)
	}
	if err := svc.SetQuarterPaid(ctx, "", 2024, 1, true, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty referrer want validation error got %v", err)
	}
}

func TestSummaryGroupsReferrersAndYears(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	ctx := context.Background()
	mustRecordInvoice(t, svc, newInvoiceInput("X", 2023, 11, "200", true))
	mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 2, "1000", true))
	mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 5, "0.15", true))
	mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 6, "500", false))
	mustRecordInvoice(t, svc, newInvoiceInput("A", 2024, 1, "10", true))
	if err := svc.SetQuarterPaid(ctx, "X", 2024, 1, true, "X"); err != nil {
		t.Fatalf("set quarter paid failed: %v", err)
	}

	summary, err := svc.Summary(ctx, repository.InvoiceListFilter{})
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if len(summary) != 2 || summary[0].Referrer != "A" || summary[1].Referrer != "X" {
		t.Fatalf("referrers want [A X] got %+v", summary)
	}

	x := summary[1]
	if len(x.Years) != 2 || x.Years[0].Year != 2024 || x.Years[1].Year != 2023 {
		t.Fatalf("years want [2024 2023] got %+v", x.Years)
	}
	year := x.Years[0]
	if len(year.Quarters) != 4 {
		t.Fatalf("quarters want 4 got %d", len(year.Quarters))
	}
	if year.Quarters[0].Bonus.String() != "100.00" || !year.Quarters[0].Paid {
		t.Fatalf("Q1 want 100.00 paid got %+v", year.Quarters[0])
	}
	// 0.015 展示时取整为 0.02
	if year.Quarters[1].Bonus.String() != "0.02" || year.Quarters[1].Paid {
		t.Fatalf("Q2 want 0.02 unpaid got %+v", year.Quarters[1])
	}
	if year.Quarters[3].Bonus.String() != "0.00" {
		t.Fatalf("Q4 want 0.00 got %s", year.Quarters[3].Bonus.String())
	}
	if year.Total.String() != "100.02" {
		t.Fatalf("total want 100.02 got %s", year.Total.String())
	}
	if x.Years[1].Quarters[3].Bonus.String() != "20.00" {
		t.Fatalf("2023 Q4 want 20.00 got %s", x.Years[1].Quarters[3].Bonus.String())
	}

	filtered, err := svc.Summary(ctx, repository.InvoiceListFilter{Referrer: "A"})
	if err != nil {
		t.Fatalf("filtered summary failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Referrer != "A" {
		t.Fatalf("filtered summary want [A] got %+v", filtered)
	}
}

func TestToggleQuarterPaidDefaultsToDisplayedYears(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	ctx := context.Background()
	mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 4, "100", true))
	mustRecordInvoice(t, svc, newInvoiceInput("X", 2022, 4, "100", true))
	mustRecordInvoice(t, svc, newInvoiceInput("Y", 2021, 4, "100", true))

	result, err := svc.ToggleQuarterPaid(ctx, "X", 2, true, nil, "X")
	if err != nil {
		t.Fatalf("cascade failed: %v", err)
	}
	if len(result.Applied) != 2 || result.Applied[0] != 2022 || result.Applied[1] != 2024 {
		t.Fatalf("applied want [2022 2024] got %v", result.Applied)
	}
	if len(result.Failed) != 0 {
		t.Fatalf("failed want empty got %v", result.Failed)
	}

	statuses, err := svc.BonusStatusMap(ctx)
	if err != nil {
		t.Fatalf("status map failed: %v", err)
	}
	if !statuses["X"]["2022-2"] || !statuses["X"]["2024-2"] || statuses["X"]["2023-2"] {
		t.Fatalf("unexpected status map %v", statuses)
	}
	if _, ok := statuses["Y"]; ok {
		t.Fatalf("other referrer should be untouched: %v", statuses)
	}
}

func TestToggleQuarterPaidDeniedBeforeAnyWrite(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	ctx := context.Background()
	mustRecordInvoice(t, svc, newInvoiceInput("X", 2024, 4, "100", true))

	result, err := svc.ToggleQuarterPaid(ctx, "X", 2, true, []int{2024}, "Y")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("want not authorized got %v", err)
	}
	if result != nil {
		t.Fatalf("denied cascade should not return a result")
	}
	paid, err := svc.QuarterBonus("X", 2024, 2)
	if err != nil {
		t.Fatalf("quarter bonus failed: %v", err)
	}
	if paid.Paid {
		t.Fatalf("denied cascade must not write")
	}
}

func TestToggleQuarterPaidRejectsInvalidYearsBeforeAnyWrite(t *testing.T) {
	svc, _ := setupLedgerServiceTest(t)
	ctx := context.Background()

	result, err := svc.ToggleQuarterPaid(ctx, "X", 2, true, []int{0, 2024}, "X")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want validation error got %v", err)
	}
	if result != nil {
		t.Fatalf("invalid cascade should not return a result")
	}
	ledgerErr, ok := AsLedgerError(err)
	if !ok || len(ledgerErr.Fields) != 1 || ledgerErr.Fields[0] != "years" {
		t.Fatalf("fields want [years] got %v", err)
	}
	paid, err := svc.bonuses.IsQuarterPaid("X", 2024, 2)
	if err != nil {
		t.Fatalf("is quarter paid failed: %v", err)
	}
	if paid {
		t.Fatalf("valid year must not be written when another year is invalid")
	}

	if _, err := svc.ToggleQuarterPaid(ctx, "X", 2, true, []int{2024, 10000}, "X"); !errors.Is(err, ErrValidation) {
		t.Fatalf("year 10000 want validation error got %v", err)
	}
}

// failingBonusRepository 对指定年份写入失败
type failingBonusRepository struct {
	repository.BonusStatusRepository
	failYear int
}

func (r *failingBonusRepository) Upsert(status *models.BonusPaidStatus) error {
	if status.Year == r.failYear {
		return errors.New("disk full")
	}
	return r.BonusStatusRepository.Upsert(status)
}

func TestToggleQuarterPaidKeepsAppliedYearsOnPartialFailure(t *testing.T) {
	db := openLedgerServiceDB(t)
	svc := newLedgerServiceForTest(t, db, &failingBonusRepository{
		BonusStatusRepository: repository.NewBonusStatusRepository(db),
		failYear:              2024,
	})
	ctx := context.Background()

	result, err := svc.ToggleQuarterPaid(ctx, "X", 2, true, []int{2024, 2023}, "X")
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if !errors.Is(err, ErrStore) {
		t.Fatalf("joined error should wrap store error, got %v", err)
	}
	if len(result.Applied) != 1 || result.Applied[0] != 2023 {
		t.Fatalf("applied want [2023] got %v", result.Applied)
	}
	if len(result.Failed) != 1 || result.Failed[0].Year != 2024 {
		t.Fatalf("failed want [2024] got %v", result.Failed)
	}
	if strings.Contains(result.Failed[0].Message, "disk full") {
		t.Fatalf("failure message should not leak internal error: %s", result.Failed[0].Message)
	}

	paid, err := svc.bonuses.IsQuarterPaid("X", 2023, 2)
	if err != nil {
		t.Fatalf("is quarter paid failed: %v", err)
	}
	if !paid {
		t.Fatalf("2023 should remain paid after 2024 failure")
	}
}
