package main

import (
	"context"
	"fmt"

	"github.com/referral-ledger/internal/config"
	"github.com/referral-ledger/internal/logger"
	"github.com/referral-ledger/internal/models"
	"github.com/referral-ledger/internal/provider"
	"github.com/referral-ledger/internal/repository"
	"github.com/referral-ledger/internal/service"

	"github.com/shopspring/decimal"
)

type seedInvoice struct {
	year     int
	month    int
	client   string
	amount   string
	rate     string
	referrer string
	paid     bool
}

var seedInvoices = []seedInvoice{
	{2023, 11, "Kovac d.o.o.", "4200.00", "0.10", "AdvokatiCHZ", true},
	{2024, 2, "Kovac d.o.o.", "1000.00", "0.10", "AdvokatiCHZ", true},
	{2024, 5, "Novak Legal", "2500.00", "0.08", "AdvokatiCHZ", false},
	{2024, 1, "Blue Harbor", "1800.00", "0.12", "MKMs", true},
	{2024, 8, "Blue Harbor", "950.50", "0.12", "MKMs", true},
	{2024, 10, "Contax Retail", "3100.00", "0.05", "Contax", true},
	{2024, 12, "Contax Retail", "700.00", "0.05", "Contax", false},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 连接数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to init services: %v", err)
	}
	ctx := context.Background()

	seeded := make(map[string]bool)
	for _, item := range seedInvoices {
		if _, ok := seeded[item.referrer]; !ok {
			existing, err := container.LedgerService.ListInvoices(repository.InvoiceListFilter{Referrer: item.referrer})
			if err != nil {
				stdLog.Fatalf("Failed to list invoices: %v", err)
			}
			// 已有数据的推荐人跳过，重复执行不会产生重复发票
			seeded[item.referrer] = len(existing) > 0
			if seeded[item.referrer] {
				fmt.Printf("skip %s: %d invoices already present\n", item.referrer, len(existing))
			}
		}
		if seeded[item.referrer] {
			continue
		}

		invoice, err := container.LedgerService.RecordInvoice(ctx, toInput(item), item.referrer)
		if err != nil {
			stdLog.Fatalf("Failed to seed invoice for %s: %v", item.referrer, err)
		}
		fmt.Printf("invoice %d: %s %d-%02d %s\n", invoice.ID, invoice.Referrer, invoice.Year, invoice.Month, invoice.Amount)
	}

	if err := container.LedgerService.SetQuarterPaid(ctx, "AdvokatiCHZ", 2023, 4, true, "AdvokatiCHZ"); err != nil {
		stdLog.Fatalf("Failed to seed bonus status: %v", err)
	}

	fmt.Println("bearer tokens:")
	for _, referrer := range []string{"AdvokatiCHZ", "MKMs", "Contax"} {
		token, expiresAt, err := container.IdentityService.GenerateToken(referrer)
		if err != nil {
			stdLog.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Printf("  %-12s %s (expires %s)\n", referrer, token, expiresAt.Format("2006-01-02 15:04"))
	}
	fmt.Println("Seed data created successfully")
}

func toInput(item seedInvoice) service.InvoiceInput {
	amount := models.NewMoneyFromDecimal(decimal.RequireFromString(item.amount))
	rate := models.NewRateFromDecimal(decimal.RequireFromString(item.rate))
	year, month := item.year, item.month
	client, referrer, paid := item.client, item.referrer, item.paid
	return service.InvoiceInput{
		Year:            &year,
		Month:           &month,
		ClientName:      &client,
		Amount:          &amount,
		Referrer:        &referrer,
		BonusPercentage: &rate,
		Paid:            &paid,
	}
}
