package main

import (
	"context"
	"log"
	"time"

	"backoffice/internal/calendar"
	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/domain"
	"backoffice/internal/modules/auth"
	"backoffice/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM availability_periods")
	db.Exec("DELETE FROM room_types")
	db.Exec("DELETE FROM experiences")
	db.Exec("DELETE FROM users")

	ctx := context.Background()

	// ================== USERS ==================
	log.Println("Creating users...")
	users := repository.NewUserRepository(db)

	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		log.Fatal(err)
	}
	admin := &domain.User{Email: "admin@backoffice.local", PasswordHash: adminHash, Role: domain.RoleAdmin, Name: "Administrator"}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal(err)
	}
	log.Println("Admin created: admin@backoffice.local / admin123")

	partnerHash, err := auth.HashPassword("partner123")
	if err != nil {
		log.Fatal(err)
	}
	partners := []*domain.User{
		{Email: "aurora@backoffice.local", PasswordHash: partnerHash, Role: domain.RolePartner, Name: "Hotel Aurora"},
		{Email: "chalet@backoffice.local", PasswordHash: partnerHash, Role: domain.RolePartner, Name: "Chalet Nord"},
	}
	for _, p := range partners {
		if err := users.Create(ctx, p); err != nil {
			log.Fatal(err)
		}
		log.Printf("Partner created: %s / partner123", p.Email)
	}

	// ================== EXPERIENCES ==================
	log.Println("Creating experiences...")
	experiences := repository.NewExperienceRepository(db)
	exps := []*domain.Experience{
		{PartnerID: partners[0].ID, Title: "Spa weekend", HotelName: "Hotel Aurora", City: "Lisbon", IsActive: true},
		{PartnerID: partners[0].ID, Title: "Wine tasting escape", HotelName: "Hotel Aurora", City: "Porto", IsActive: true},
		{PartnerID: partners[1].ID, Title: "Ski week", HotelName: "Chalet Nord", City: "Chamonix", IsActive: true},
	}
	for _, e := range exps {
		if err := experiences.Create(ctx, e); err != nil {
			log.Fatal(err)
		}
	}

	// ================== ROOM TYPES ==================
	log.Println("Creating room types...")
	roomTypes := repository.NewRoomTypeRepository(db)
	var created []*domain.RoomType
	for _, e := range exps {
		for _, rt := range []*domain.RoomType{
			{ExperienceID: e.ID, Name: "Standard", BaseCapacity: 2, MaxCapacity: 2, Amenities: []string{"wifi"}, Images: []string{}},
			{ExperienceID: e.ID, Name: "Deluxe", BaseCapacity: 2, MaxCapacity: 3, Amenities: []string{"wifi", "balcony"}, Images: []string{}},
		} {
			if err := roomTypes.Create(ctx, rt); err != nil {
				log.Fatal(err)
			}
			created = append(created, rt)
		}
	}

	// ================== AVAILABILITY ==================
	log.Println("Creating availability for the next 30 days...")
	today := calendar.Midnight(time.Now())
	var periods []domain.AvailabilityPeriod
	for _, rt := range created {
		for i := 0; i < 30; i++ {
			d := today.AddDate(0, 0, i)
			price, original := 100.0, 100.0
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				price, original = 150, 150
			}
			if rt.Name == "Deluxe" {
				price, original = price*1.6, original*2
			}
			periods = append(periods, domain.AvailabilityPeriod{
				ExperienceID:   rt.ExperienceID,
				RoomTypeID:     rt.ID,
				Date:           calendar.LocalDateKey(d),
				Price:          price,
				OriginalPrice:  original,
				AvailableRooms: 5,
				IsAvailable:    true,
			}.WithDerivedDiscount())
		}
	}

	if err := repository.NewAvailabilityRepository(db).BulkUpsert(ctx, periods); err != nil {
		log.Fatal(err)
	}

	log.Printf("Seed completed: users=%d experiences=%d room_types=%d periods=%d", 1+len(partners), len(exps), len(created), len(periods))
}
