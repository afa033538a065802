// Command expire-drafts withdraws draft applications that have been
// inactive past a cutoff. Intended to run from cron.
package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"rental-marketplace-api/config"
	"rental-marketplace-api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	maxAgeDays := 30
	if raw := os.Getenv("DRAFT_MAX_AGE_DAYS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Fatalf("invalid DRAFT_MAX_AGE_DAYS %q", raw)
		}
		maxAgeDays = parsed
	}

	notify := services.NewNotificationService(config.DB)
	audit := services.NewAuditService(config.DB)
	svc := services.NewApplicationService(config.DB, notify, audit)

	expired, err := svc.ExpireStaleDrafts(maxAgeDays)
	if err != nil {
		log.Fatalf("draft expiry failed after %d withdrawals: %v", expired, err)
	}
	log.Printf("withdrew %d stale draft applications (older than %d days)", expired, maxAgeDays)
}
