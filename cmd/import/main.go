package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lingoloop/internal/config"
	"lingoloop/internal/database"
	"lingoloop/internal/models"
	"lingoloop/internal/repository"
	"lingoloop/internal/scheduler"
	"lingoloop/internal/service"
)

func main() {
	filePath := flag.String("file", "", "Path to the .xlsx or .csv file to import (required)")
	ownerID := flag.Int64("owner", 0, "ID of the account that will own the imported items (required)")
	mode := flag.String("mode", "memory_model", "Review mode for imported items: geometric or memory_model")
	kind := flag.String("kind", "flashcard", "Default item kind: sentence or flashcard")
	sheet := flag.String("sheet", "Sheet1", "Sheet name for Excel files")
	startRow := flag.Int("start-row", 2, "First data row, 1-based (default skips a header row)")
	flag.Parse()

	if *filePath == "" || *ownerID == 0 {
		fmt.Println("Error: -file and -owner are required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	reviewMode := models.ReviewMode(*mode)
	if !reviewMode.Valid() {
		log.Fatalf("Invalid mode %q: want geometric or memory_model", *mode)
	}
	itemKind := models.ItemKind(*kind)
	if !itemKind.Valid() {
		log.Fatalf("Invalid kind %q: want sentence or flashcard", *kind)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// The import has to see the same owner the API does.
	userRepo := repository.NewUserRepository(db)
	owner, err := userRepo.GetUserByID(*ownerID)
	if err != nil {
		log.Fatalf("Failed to look up owner: %v", err)
	}
	if owner == nil {
		log.Fatalf("No account with ID %d", *ownerID)
	}

	reviewRepo := repository.NewReviewRepository(db)
	reviewService := service.NewReviewService(reviewRepo, schedulerParams(cfg))
	importService := service.NewImportService(reviewService)

	importCfg := service.DefaultImportConfig()
	importCfg.FilePath = *filePath
	importCfg.SheetName = *sheet
	importCfg.StartRow = *startRow
	importCfg.Mode = reviewMode
	importCfg.DefaultKind = itemKind

	start := time.Now()
	result, err := importService.ImportFile(owner.ID, importCfg)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Import complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Processed: %d\n", result.TotalProcessed)
	fmt.Printf("  Created:   %d\n", result.Created)
	fmt.Printf("  Existing:  %d\n", result.Existing)
	fmt.Printf("  Errors:    %d\n", len(result.Errors))
	for _, e := range result.Errors {
		fmt.Printf("    %s\n", e)
	}

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// schedulerParams applies the config's tuning knobs on top of the defaults
func schedulerParams(cfg *config.Config) scheduler.Params {
	params := scheduler.DefaultParams()
	params.BaseInterval = time.Duration(cfg.BaseIntervalMinutes) * time.Minute
	params.MaxGeometricInterval = time.Duration(cfg.GeometricMaxIntervalMin) * time.Minute
	params.TargetRetention = cfg.TargetRetention
	params.MaxIntervalDays = cfg.MaxIntervalDays
	return params
}
