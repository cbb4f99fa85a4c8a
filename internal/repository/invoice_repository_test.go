package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/referral-ledger/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupLedgerRepositoryTest(t *testing.T) *gorm.DB {
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

func newTestInvoice(referrer string, year, month int, amount string, paid bool) *models.Invoice {
	return &models.Invoice{
		Year:            year,
		Month:           month,
		ClientName:      "Acme",
		Amount:          models.NewMoneyFromDecimal(decimal.RequireFromString(amount)),
		Referrer:        referrer,
		BonusPercentage: models.NewRateFromDecimal(decimal.RequireFromString("0.10")),
		Paid:            paid,
		CreatedBy:       referrer,
	}
}

func TestInvoiceRepositoryListOrdersByIDDesc(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	repo := NewInvoiceRepository(db)

	for i, month := range []int{1, 2, 3} {
		inv := newTestInvoice("X", 2024, month, fmt.Sprintf("%d00", i+1), true)
		if err := repo.Create(inv); err != nil {
			t.Fatalf("create invoice failed: %v", err)
		}
	}

	rows, err := repo.List(InvoiceListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows want 3 got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].ID <= rows[i].ID {
			t.Fatalf("rows should be ordered by id desc: %d before %d", rows[i-1].ID, rows[i].ID)
		}
	}
}

func TestInvoiceRepositoryListPagination(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	repo := NewInvoiceRepository(db)

	ids := make([]uint, 0, 5)
	for month := 1; month <= 5; month++ {
		inv := newTestInvoice("X", 2024, month, "100", true)
		if err := repo.Create(inv); err != nil {
			t.Fatalf("create invoice failed: %v", err)
		}
		ids = append(ids, inv.ID)
	}

	rows, err := repo.List(InvoiceListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != ids[2] || rows[1].ID != ids[1] {
		t.Fatalf("page 2 want ids [%d %d] got %+v", ids[2], ids[1], rows)
	}

	rows, err = repo.List(InvoiceListFilter{Page: 0, PageSize: 0})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("unpaged list want 5 got %d", len(rows))
	}
}

func TestInvoiceRepositoryListFilters(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	repo := NewInvoiceRepository(db)

	fixtures := []*models.Invoice{
		newTestInvoice("X", 2023, 5, "100", true),
		newTestInvoice("X", 2024, 5, "100", true),
		newTestInvoice("Y", 2024, 5, "100", true),
	}
	for _, inv := range fixtures {
		if err := repo.Create(inv); err != nil {
			t.Fatalf("create invoice failed: %v", err)
		}
	}

	rows, err := repo.List(InvoiceListFilter{Referrer: "X", Year: 2024})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Referrer != "X" || rows[0].Year != 2024 {
		t.Fatalf("filtered rows want one X/2024 invoice got %+v", rows)
	}

	years, err := repo.ListYearsByReferrer("X")
	if err != nil {
		t.Fatalf("list years failed: %v", err)
	}
	if len(years) != 2 || years[0] != 2024 || years[1] != 2023 {
		t.Fatalf("years want [2024 2023] got %v", years)
	}
}

func TestInvoiceRepositoryUpdateFieldsIsPartial(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	repo := NewInvoiceRepository(db)

	inv := newTestInvoice("X", 2024, 2, "1000", false)
	if err := repo.Create(inv); err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}

	if err := repo.UpdateFields(inv.ID, map[string]interface{}{"paid": true}); err != nil {
		t.Fatalf("update fields failed: %v", err)
	}

	got, err := repo.GetByID(inv.ID)
	if err != nil || got == nil {
		t.Fatalf("reload invoice failed: %v", err)
	}
	if !got.Paid {
		t.Fatalf("paid should be updated")
	}
	if got.Amount.String() != "1000.00" || got.ClientName != "Acme" || got.Month != 2 {
		t.Fatalf("other fields should be untouched, got %+v", got)
	}
}

func TestInvoiceRepositoryDeleteDoesNotReuseID(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	repo := NewInvoiceRepository(db)

	first := newTestInvoice("X", 2024, 1, "100", true)
	second := newTestInvoice("X", 2024, 1, "200", true)
	if err := repo.Create(first); err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	if err := repo.Create(second); err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	if err := repo.Delete(second.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	gone, err := repo.GetByID(second.ID)
	if err != nil {
		t.Fatalf("get deleted failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("deleted invoice should be gone")
	}

	third := newTestInvoice("X", 2024, 1, "300", true)
	if err := repo.Create(third); err != nil {
		t.Fatalf("create third failed: %v", err)
	}
	if third.ID <= second.ID {
		t.Fatalf("id should not be reused: deleted=%d new=%d", second.ID, third.ID)
	}
}

func TestInvoiceRepositoryTransactionForUpdate(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	repo := NewInvoiceRepository(db)

	inv := newTestInvoice("X", 2024, 4, "500", false)
	if err := repo.Create(inv); err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}

	err := repo.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		locked, err := txRepo.GetByIDForUpdate(inv.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("invoice %d not found", inv.ID)
		}
		return txRepo.UpdateFields(locked.ID, map[string]interface{}{"client_name": "Globex"})
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	got, err := repo.GetByID(inv.ID)
	if err != nil || got == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.ClientName != "Globex" {
		t.Fatalf("client name want Globex got %s", got.ClientName)
	}

	missing, err := repo.GetByIDForUpdate(inv.ID + 100)
	if err != nil {
		t.Fatalf("get missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing invoice should return nil")
	}
}
