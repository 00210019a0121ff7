package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sparebudget/internal/domain/budget"
	"sparebudget/internal/domain/transaction"
	"sparebudget/internal/domain/user"
	"sparebudget/internal/infrastructure/postgres"
	"sparebudget/internal/shared/config"
	"sparebudget/internal/shared/logger"
)

const usage = `SpareBudget Admin CLI - Management commands for the SpareBudget API

Usage:
  admin <command> [options]

Commands:
  migrate               Apply pending database migrations
  seed-categories       Insert or refresh the budget category catalog
  collapse-duplicates   Remove duplicate transactions sharing amount, date and description

Examples:
  # Collapse duplicates for one user
  admin collapse-duplicates --email=ola@example.com

  # Collapse duplicates for several users
  admin collapse-duplicates --email=ola@example.com,kari@example.com

  # Collapse duplicates for all users with more workers
  admin collapse-duplicates --all --workers=8 --timeout=1h
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		boot := logger.NewConsole("info")
		boot.Fatal().Err(err).Msg("Failed to load config")
	}
	log := logger.NewConsole(cfg.Log.Level)

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate(cfg, log)
	case "seed-categories":
		runSeedCategories(cfg, log)
	case "collapse-duplicates":
		runCollapseDuplicates(cfg, log, os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage + "\n")
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage + "\n")
		os.Exit(1)
	}
}

func runMigrate(cfg *config.Config, log zerolog.Logger) {
	if err := postgres.RunMigrations(cfg.Database.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Msg("Migrations applied")
}

func runSeedCategories(cfg *config.Config, log zerolog.Logger) {
	db := connect(cfg, log)
	defer db.Close()

	table, err := budget.DefaultKeywordTable()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load category keywords")
	}
	svc := budget.NewService(postgres.NewBudgetRepository(db), postgres.NewTransactionRepository(db), table, cfg.App.Location)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	categories, err := svc.SeedCategories(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding categories failed")
	}
	for _, c := range categories {
		fmt.Printf("  %-28s %s\n", c.Name, c.ID)
	}
	log.Info().Int("categories", len(categories)).Msg("Categories seeded")
}

func runCollapseDuplicates(cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("collapse-duplicates", flag.ExitOnError)

	emails := fs.String("email", "", "User email(s) to clean up (comma-separated for multiple)")
	allUsers := fs.Bool("all", false, "Clean up every user")
	workers := fs.Int("workers", transaction.DefaultWorkerCount, "Number of users processed concurrently")
	timeout := fs.Duration("timeout", 30*time.Minute, "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin collapse-duplicates [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *emails == "" && !*allUsers {
		fmt.Println("Error: must specify --email or --all")
		fs.Usage()
		os.Exit(1)
	}

	db := connect(cfg, log)
	defer db.Close()

	users := user.NewService(postgres.NewUserRepository(db))
	collapsor := transaction.NewCollapsorWithWorkers(postgres.NewTransactionRepository(db), log, *workers)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	userIDs, labels, err := resolveUsers(ctx, users, *emails, *allUsers)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve users")
	}
	if len(userIDs) == 0 {
		log.Info().Msg("No users to process")
		return
	}

	log.Info().Int("users", len(userIDs)).Int("workers", *workers).Msg("Starting duplicate collapse")
	start := time.Now()

	results := collapsor.CollapseMany(ctx, userIDs)
	failed := 0
	for _, id := range userIDs {
		r := results[id]
		if r.Err != nil {
			failed++
		}
		printResult(labels[id], r)
	}

	log.Info().Dur("elapsed", time.Since(start)).Int("failed", failed).Msg("Duplicate collapse completed")
	if failed > 0 {
		os.Exit(1)
	}
}

// resolveUsers returns the ids to process and a display label for each
func resolveUsers(ctx context.Context, users *user.Service, emails string, all bool) ([]int64, map[int64]string, error) {
	labels := make(map[int64]string)

	if all {
		ids, err := users.ListIDs(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, id := range ids {
			labels[id] = fmt.Sprintf("user %d", id)
		}
		return ids, labels, nil
	}

	var ids []int64
	for _, email := range strings.Split(emails, ",") {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		u, err := users.Lookup(ctx, email)
		if err != nil {
			return nil, nil, fmt.Errorf("lookup %s: %w", email, err)
		}
		if u == nil {
			fmt.Printf("Skipping %s: no such user\n", email)
			continue
		}
		if _, seen := labels[u.ID]; seen {
			continue
		}
		labels[u.ID] = u.Email
		ids = append(ids, u.ID)
	}
	return ids, labels, nil
}

func printResult(label string, r transaction.UserCollapse) {
	fmt.Printf("\n=== %s ===\n", label)
	if r.Err != nil {
		fmt.Printf("  Error: %v\n", r.Err)
		return
	}
	fmt.Printf("  Duplicate groups:     %d\n", len(r.Result.Groups))
	fmt.Printf("  Duplicates found:     %d\n", r.Result.DuplicatesFound)
	fmt.Printf("  Duplicates removed:   %d\n", r.Result.DuplicatesRemoved)

	for i, g := range r.Result.Groups {
		if i >= 5 {
			fmt.Printf("    ... and %d more groups\n", len(r.Result.Groups)-5)
			break
		}
		fmt.Printf("    - %s %s x%d\n", g.Amount.String(), g.Description, g.Count)
	}
}

func connect(cfg *config.Config, log zerolog.Logger) *postgres.DB {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Connected to database")
	return db
}
