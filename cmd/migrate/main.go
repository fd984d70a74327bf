package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"courier-chat/config"
	"courier-chat/pkg/database"
)

const usage = `
Courier Chat - Database CLI Tool

Usage:
  migrate [flags] [command]

Commands:
  up          Create or update all tables
  status      Show database connection and table status
  seed-dev    Seed two demo users with a thread and a few messages
  reset       Drop all tables and re-run migrations (DANGEROUS)
  truncate    Delete all threads and messages, keep users (DANGEROUS)

Flags:
  -password string   Password for seeded users (default "Password123!")
  -yes               Skip the countdown before destructive commands

Examples:
  go run ./cmd/migrate up
  go run ./cmd/migrate seed-dev
  go run ./cmd/migrate -yes reset
`

func main() {
	password := flag.String("password", "Password123!", "Password for seeded users")
	yes := flag.Bool("yes", false, "Skip the countdown before destructive commands")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	// Load config and connect to database
	cfg := config.LoadConfig()
	database.Connect(cfg)
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp()
	case "status":
		showStatus()
	case "seed-dev":
		runSeedDevelopment(*password)
	case "reset":
		countdown(*yes, "DROP all tables and re-run migrations")
		runReset()
	case "truncate":
		countdown(*yes, "delete every thread and message")
		runTruncate()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp() {
	log.Println("Running migrations...")
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed")
}

func showStatus() {
	if err := database.Ping(); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	for _, table := range []string{"users", "threads", "thread_participants", "messages"} {
		exists, err := database.TableExists(table)
		if err != nil {
			log.Printf("Error checking table %s: %v", table, err)
			continue
		}
		if !exists {
			log.Printf("Table %-20s does not exist", table)
			continue
		}
		count, err := database.TableCount(table)
		if err != nil {
			log.Printf("Table %-20s exists (count failed: %v)", table, err)
			continue
		}
		log.Printf("Table %-20s exists (%d rows)", table, count)
	}

	if err := database.HealthCheck(); err != nil {
		log.Printf("Health check warning: %v", err)
	} else {
		log.Println("Health check: PASSED")
	}
}

func runSeedDevelopment(password string) {
	log.Println("Seeding database (development mode)...")

	cfg := database.DefaultSeedConfig()
	cfg.Password = password
	result, err := database.Seed(database.DB, cfg)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seed summary:")
	for _, u := range result.Users {
		log.Printf("   - user %s (%s)", u.Username, u.ID)
	}
	log.Printf("   - thread %s", result.Thread.ID)
	log.Printf("   - messages: %d", len(result.Messages))
}

func runReset() {
	if err := database.DropAll(database.DB); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}
	runMigrationsUp()
	log.Println("Database reset completed")
}

func runTruncate() {
	if err := database.Truncate(database.DB); err != nil {
		log.Fatalf("Truncate failed: %v", err)
	}
	log.Println("Chat tables truncated")
}

func countdown(skip bool, action string) {
	log.Printf("WARNING: this will %s", action)
	if skip {
		return
	}
	log.Println("Press Ctrl+C within 5 seconds to cancel...")
	for i := 5; i > 0; i-- {
		fmt.Printf("%d... ", i)
		time.Sleep(time.Second)
	}
	fmt.Println()
}
