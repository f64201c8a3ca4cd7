package main

import (
	"context"
	"errors"
	"log"
	"time"

	"rideshare/internal/app"
	"rideshare/internal/config"
	"rideshare/internal/database"
	"rideshare/internal/domain"
	"rideshare/internal/domain/subscription"
	"rideshare/internal/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	email    string
	password string
	first    string
	last     string
	role     domain.UserRole
	profile  domain.Profile
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db, app.Models()...); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	svc := app.Services(cfg, db)
	users := repository.NewUserRepository(db)
	trips := repository.NewTripRepository(db)

	// ================== PLANS ==================
	plans := []subscription.Plan{
		{Name: "Driver monthly", Price: domain.NewMoney(10000, 0), DurationDays: 30, TargetRole: string(domain.RoleDriver)},
		{Name: "Passenger monthly", Price: domain.NewMoney(5000, 0), DurationDays: 30, TargetRole: string(domain.RolePassenger)},
	}
	existing, err := subscription.NewRepository(db).ListPlans(ctx, "")
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(existing) == 0 {
		for i := range plans {
			if err := svc.Subscriptions.CreatePlan(ctx, &plans[i]); err != nil {
				log.Fatalf("create plan %q: %v", plans[i].Name, err)
			}
			log.Printf("Plan created: %s (%s)", plans[i].Name, plans[i].Price.Format())
		}
	}

	// ================== USERS ==================
	seeds := []seedUser{
		{email: "admin@rideshare.rw", password: "admin123", first: "Platform", last: "Admin", role: domain.RoleAdmin},
		{
			email: "driver@rideshare.rw", password: "driver123", first: "Eric", last: "Niyonzima", role: domain.RoleDriver,
			profile: domain.Profile{PhoneNumber: "+250788000111", VehicleModel: "Toyota Corolla", VehiclePlate: "RAB 123 C", VehicleSeats: 4},
		},
		{
			email: "passenger@rideshare.rw", password: "passenger123", first: "Aline", last: "Uwase", role: domain.RolePassenger,
			profile: domain.Profile{PhoneNumber: "+250788000222"},
		},
	}

	ids := make(map[domain.UserRole]int64, len(seeds))
	for _, s := range seeds {
		if u, err := users.GetByEmail(ctx, s.email); err == nil {
			ids[s.role] = u.ID
			log.Printf("User exists: %s", s.email)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("lookup %s: %v", s.email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		u := &domain.User{Email: s.email, PasswordHash: string(hash), FirstName: s.first, LastName: s.last, Role: s.role}
		p := s.profile
		if err := users.Create(ctx, u, &p); err != nil {
			log.Fatalf("create %s: %v", s.email, err)
		}
		if s.role != domain.RoleAdmin {
			if _, err := svc.Subscriptions.Ensure(ctx, u.ID); err != nil {
				log.Fatalf("trial for %s: %v", s.email, err)
			}
		}
		ids[s.role] = u.ID
		log.Printf("User created: %s / %s", s.email, s.password)
	}

	// ================== TRIPS ==================
	mine, err := trips.ListByDriver(ctx, ids[domain.RoleDriver])
	if err != nil {
		log.Fatal(err)
	}
	if len(mine) > 0 {
		log.Println("Demo trip already present, done")
		return
	}

	departure := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	trip := &domain.Trip{
		DriverID:          ids[domain.RoleDriver],
		StartLocationName: "Kigali",
		DestinationName:   "Huye",
		DepartureTime:     departure,
		SeatCapacity:      4,
		AvailableSeats:    4,
		PricePerSeat:      domain.MustParseMoney("3500.00"),
		IsActive:          true,
		HasAC:             true,
		AllowsLuggage:     true,
		NoSmoking:         true,
		AdditionalInfo:    "Pickup at Nyabugogo bus park",
	}
	if err := trips.Create(ctx, trip); err != nil {
		log.Fatalf("create trip: %v", err)
	}
	log.Printf("Trip created: #%d %s departing %s", trip.ID, trip.Summary().Route(), departure.Format(time.RFC3339))
	log.Println("Seed completed")
}
