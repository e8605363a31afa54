// Command reset-stock bulk-deletes every purchase request and puts the
// offering's available count back to full capacity. Maintenance tool for
// wiping a finished event before configuring the next one.
package main

import (
	"context"
	"database/sql"
	"fmt"

	"omnia-tickets/internal/config"
	"omnia-tickets/internal/inventory"
	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/purchase"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
	}
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	defer bunDB.Close()

	ctx := context.Background()
	purchaseDB := &purchase.DB{Bun: bunDB}
	inventoryService := inventory.NewService(&inventory.DB{Bun: bunDB}, &inventory.LocalLock{}, log)

	deleted, err := purchaseDB.DeleteAllPurchases(ctx)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to delete purchases: %v", err))
	}
	log.Info("RESET", fmt.Sprintf("Deleted %d purchase(s)", deleted))

	offering, err := inventoryService.ResetStock(ctx)
	if err != nil {
		log.Fatal("STOCK", fmt.Sprintf("Failed to reset stock: %v", err))
	}
	log.Info("RESET", fmt.Sprintf("Stock reset for offering %s. Available: %d", offering.ID, offering.AvailableTickets))
}
