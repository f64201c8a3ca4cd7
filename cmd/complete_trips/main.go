package main

import (
	"context"
	"flag"
	"log"
	"time"

	"rideshare/internal/app"
	"rideshare/internal/config"
	"rideshare/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	keepDays := flag.Int("keep-notifications", 90, "delete read notifications older than this many days")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	svc := app.Services(cfg, db)

	completed, err := svc.Bookings.CompleteDepartedTrips(ctx)
	if err != nil {
		log.Fatalf("complete departed trips failed: %v", err)
	}

	expired, err := svc.Subscriptions.ExpireSubscriptions(ctx)
	if err != nil {
		log.Fatalf("expire subscriptions failed: %v", err)
	}

	cleaned, err := svc.Notifications.Cleanup(ctx, *keepDays)
	if err != nil {
		log.Fatalf("cleanup notifications failed: %v", err)
	}

	log.Printf("maintenance completed: bookings_completed=%d subscriptions_expired=%d notifications_deleted=%d",
		completed, expired, cleaned)
}
