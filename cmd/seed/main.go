// Command seed populates the billing database with demo invoices so the
// callback flows can be exercised end to end against a test-mode Paystack
// account.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/shopspring/decimal"

	"github.com/billaxle/paygate/internal/billing"
	"github.com/billaxle/paygate/internal/repository"
)

const moduleName = "paystack"

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "billing.db"
	}

	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	repo := repository.NewInvoiceRepo(db)
	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	groups := []struct {
		currency string
		count    int
	}{
		{"NGN", 8},
		{"USD", 4},
		{"GHS", 3},
	}

	seeded := 0
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			total := decimal.NewFromInt(int64(1000 + rng.Intn(49000))).Div(decimal.NewFromInt(100))
			inv := billing.Invoice{
				UserID:   100 + rng.Intn(50),
				Number:   fmt.Sprintf("INV-%s-%04d", g.currency, i+1),
				Currency: g.currency,
				Total:    total,
				Balance:  total,
				Status:   "Unpaid",
			}
			id, err := repo.CreateInvoice(ctx, inv, moduleName)
			if err != nil {
				log.Fatalf("Failed to seed invoice %s: %v", inv.Number, err)
			}
			log.Printf("Seeded invoice %d (%s %s)", id, inv.Currency, total)
			seeded++
		}
	}

	log.Printf("Seeded %d invoices", seeded)
}
