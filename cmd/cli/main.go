package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/desivar/bridebloom/internal/config"
	"github.com/desivar/bridebloom/internal/models"
	"github.com/desivar/bridebloom/internal/store"
)

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	name := addAdminCmd.String("name", "", "Display name for the new admin")
	email := addAdminCmd.String("email", "", "Email for the new admin")
	password := addAdminCmd.String("password", "", "Password for the new admin")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-admin' or 'seed-flowers' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *name == "" || *email == "" || *password == "" {
			fmt.Println("name, email and password are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		createAdmin(*name, *email, *password)
	case "seed-flowers":
		seedFlowers()
	default:
		fmt.Println("expected 'add-admin' or 'seed-flowers' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := store.NewStore(context.Background(), cfg.MongoURI, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure indexes exist if running cli before server
	if err := db.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	return db
}

func createAdmin(name, email, password string) {
	db := openStore()
	defer db.Close(context.Background())

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}
	if err := db.CreateUser(context.Background(), admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", email)
}

// seedFlowers loads the starter catalog, skipping the insert when the
// collection already has flowers.
func seedFlowers() {
	db := openStore()
	defer db.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := db.CountFlowers(ctx)
	if err != nil {
		log.Fatalf("Failed to count flowers: %v", err)
	}
	if count > 0 {
		fmt.Printf("Database already has %d flowers.\n", count)
		return
	}

	for _, flower := range sampleFlowers() {
		flower := flower
		if err := db.CreateFlower(ctx, &flower); err != nil {
			log.Fatalf("Failed to insert %q: %v", flower.Name, err)
		}
	}
	fmt.Println("Sample flowers inserted.")
}

func sampleFlowers() []models.Flower {
	return []models.Flower{
		{
			Name:        "Romantic Rose Bouquet",
			Description: "Classic red roses perfect for any season. Hand-tied with baby's breath and greenery.",
			Price:       89.99,
			Season:      models.SeasonAllSeason,
			Category:    models.CategoryBouquet,
			Colors:      []string{"red", "pink"},
			InStock:     true,
			Popularity:  95,
		},
		{
			Name:        "Spring Tulip Centerpiece",
			Description: "Vibrant tulips for spring celebrations. Perfect for table arrangements.",
			Price:       65.99,
			Season:      models.SeasonSpring,
			Category:    models.CategoryCenterpiece,
			Colors:      []string{"pink", "yellow", "purple"},
			InStock:     true,
			Popularity:  85,
		},
		{
			Name:        "Summer Sunflower Bliss",
			Description: "Bright sunflowers that capture the essence of summer.",
			Price:       75.99,
			Season:      models.SeasonSummer,
			Category:    models.CategoryBouquet,
			Colors:      []string{"yellow", "orange"},
			InStock:     true,
			Popularity:  88,
		},
		{
			Name:        "Autumn Elegance Bouquet",
			Description: "Warm tones of fall with dahlias, chrysanthemums, and berries.",
			Price:       82.99,
			Season:      models.SeasonFall,
			Category:    models.CategoryBouquet,
			Colors:      []string{"orange", "red", "burgundy"},
			InStock:     true,
			Popularity:  90,
		},
		{
			Name:        "Winter White Wonder",
			Description: "Elegant white flowers for a winter wonderland wedding.",
			Price:       99.99,
			Season:      models.SeasonWinter,
			Category:    models.CategoryBouquet,
			Colors:      []string{"white", "silver"},
			InStock:     true,
			Popularity:  92,
		},
		{
			Name:        "Elegant Ceremony Arch",
			Description: "Stunning floral arch for your ceremony backdrop.",
			Price:       299.99,
			Season:      models.SeasonAllSeason,
			Category:    models.CategoryCeremony,
			Colors:      []string{"white", "green"},
			InStock:     true,
			Popularity:  90,
		},
	}
}
