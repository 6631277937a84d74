package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lms-api/config"
	"lms-api/internal/repository"
	"lms-api/internal/services"
	"lms-api/internal/storage"
	"lms-api/internal/transport/httpdto"
	"lms-api/pkg/database"

	"golang.org/x/crypto/bcrypt"
)

const usage = `
LMS API - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Create unique indexes on users.email and users.username
  status      Show database connection status and document counts
  seed-dev    Seed sample courses and a demo user
  truncate    Delete all courses and users (DANGEROUS)
  export      Upload a JSON snapshot of all courses to S3

Flags:
  -demo-email string  Demo user email for seeding (default "demo@lms.local")
  -demo-pass string   Demo user password for seeding (default "Demo@123!")
  -timeout duration   Overall command timeout (default 1m)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed-dev
  go run cmd/migrate/main.go export
`

func main() {
	demoEmail := flag.String("demo-email", "demo@lms.local", "Demo user email for seeding")
	demoPass := flag.String("demo-pass", "Demo@123!", "Demo user password for seeding")
	timeout := flag.Duration("timeout", time.Minute, "Overall command timeout")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	if cfg.StoreDriver != config.StoreDriverMongo {
		log.Fatalf("migrate only works against MongoDB (STORE_DRIVER=%s)", cfg.StoreDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := database.Connect(ctx, database.MongoConfig{
		URI:     cfg.MongoURI,
		Name:    cfg.MongoDB,
		Timeout: cfg.MongoTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = store.Disconnect(context.Background())
	}()

	courses := repository.NewCourseRepository(store)
	users := repository.NewUserRepository(store)

	switch command {
	case "up":
		runMigrationsUp(ctx, users)
	case "status":
		showStatus(ctx, store, courses, users)
	case "seed-dev":
		runSeedDevelopment(ctx, courses, users, *demoEmail, *demoPass)
	case "truncate":
		runTruncate(ctx, store)
	case "export":
		runExport(ctx, cfg, courses)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(ctx context.Context, users repository.UserRepository) {
	log.Println("Creating indexes...")

	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Index creation failed: %v", err)
	}

	log.Println("Indexes are in place")
}

func showStatus(ctx context.Context, store *database.Store, courses repository.CourseRepository, users repository.UserRepository) {
	log.Println("Checking database status...")

	if err := store.Ping(ctx); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	if n, err := courses.Count(ctx); err != nil {
		log.Printf("Error counting %s: %v", database.CoursesCollection, err)
	} else {
		log.Printf("Collection %-10s %d documents", database.CoursesCollection, n)
	}
	if n, err := users.Count(ctx); err != nil {
		log.Printf("Error counting %s: %v", database.UsersCollection, err)
	} else {
		log.Printf("Collection %-10s %d documents", database.UsersCollection, n)
	}
}

func runSeedDevelopment(ctx context.Context, courses repository.CourseRepository, users repository.UserRepository, email, password string) {
	log.Println("Seeding database (development mode)...")

	seedCfg := database.DefaultSeedConfig()
	seedCfg.DemoEmail = email
	seedCfg.DemoPassword = password

	result, err := database.Seed(ctx, courses, users, services.NewBcryptHasher(bcrypt.DefaultCost), seedCfg)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seed Summary:")
	if result.DemoUserExists {
		log.Printf("   - Demo user: %s (already present, ID: %s)", result.DemoUser.Email, result.DemoUser.ID)
	} else {
		log.Printf("   - Demo user: %s (ID: %s)", result.DemoUser.Email, result.DemoUser.ID)
	}
	log.Printf("   - Courses created: %d", result.CoursesCreated)
	log.Println("Development seeding completed!")
}

func runTruncate(ctx context.Context, store *database.Store) {
	log.Println("WARNING: This will delete every course and user!")

	for _, name := range []string{database.CoursesCollection, database.UsersCollection} {
		n, err := store.Collection(name).DeleteAll(ctx)
		if err != nil {
			log.Fatalf("Truncate of %s failed: %v", name, err)
		}
		log.Printf("Removed %d documents from %s", n, name)
	}

	log.Println("All collections truncated!")
}

func runExport(ctx context.Context, cfg *config.Config, courses repository.CourseRepository) {
	s3Client, err := storage.NewClient(ctx, storage.S3Config{
		Region:     cfg.S3Region,
		Bucket:     cfg.S3Bucket,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		Endpoint:   cfg.S3Endpoint,
		PublicBase: cfg.S3PublicBase,
	})
	if err != nil {
		log.Fatalf("S3 is not configured: %v", err)
	}

	result, err := services.NewExportService(courses, s3Client, cfg.ExportPrefix).ExportCourses(ctx)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	out, _ := json.MarshalIndent(httpdto.FromExportResult(result), "", "  ")
	fmt.Println(string(out))
}
