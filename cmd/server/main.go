package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/billaxle/paygate/internal/api"
	"github.com/billaxle/paygate/internal/paystack"
	"github.com/billaxle/paygate/internal/repository"
	"github.com/billaxle/paygate/internal/settlement"
	"github.com/billaxle/paygate/internal/webhook"
)

const moduleName = "paystack"

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "billing.db"
	}

	log.Printf("Initializing billing database at %s", dbPath)
	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)

	// Bootstrap gateway config from the environment when the module has
	// not been configured yet.
	ctx := context.Background()
	cfg, err := store.GatewayConfig(ctx, moduleName)
	if err != nil {
		log.Fatalf("Failed to load gateway config: %v", err)
	}
	if !cfg.Active {
		log.Println("Gateway module not configured, seeding from environment...")
		if err := seedGatewayConfig(ctx, store); err != nil {
			log.Fatalf("Failed to seed gateway config: %v", err)
		}
	}

	client := paystack.NewClient(os.Getenv("PAYSTACK_BASE_URL"), nil)
	tracker := paystack.NewTracker("whmcs", os.Getenv("PAYSTACK_TRACKER_URL"), nil)
	engine := settlement.NewEngine(client, store, tracker, moduleName)
	dispatcher := webhook.NewDispatcher(engine)

	router := api.NewRouter(store, client, engine, dispatcher, moduleName)

	log.Printf("Paystack callback gateway")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /modules/gateways/callback/%s", moduleName)
	log.Printf("  GET    /modules/gateways/callback/%s", moduleName)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func seedGatewayConfig(ctx context.Context, store *repository.Store) error {
	settings := map[string]string{
		"type":          "CC",
		"testMode":      os.Getenv("PAYSTACK_TEST_MODE"),
		"testSecretKey": os.Getenv("PAYSTACK_TEST_SECRET_KEY"),
		"testPublicKey": os.Getenv("PAYSTACK_TEST_PUBLIC_KEY"),
		"liveSecretKey": os.Getenv("PAYSTACK_SECRET_KEY"),
		"livePublicKey": os.Getenv("PAYSTACK_PUBLIC_KEY"),
		"gatewayLogs":   "on",
		"convertto":     os.Getenv("PAYSTACK_SETTLEMENT_CURRENCY"),
	}
	for setting, value := range settings {
		if err := store.SetVariable(ctx, moduleName, setting, value); err != nil {
			return err
		}
	}

	// Default rate table; rates are local units per 1 USD.
	rates := []struct {
		code     string
		rate     float64
		decimals int32
	}{
		{"USD", 1.0, 2},
		{"NGN", 1580.0, 2},
		{"GHS", 15.6, 2},
		{"KES", 129.5, 2},
		{"ZAR", 18.6, 2},
	}
	for _, c := range rates {
		if err := store.UpsertRate(ctx, c.code, c.rate, c.decimals); err != nil {
			return err
		}
	}

	return nil
}
