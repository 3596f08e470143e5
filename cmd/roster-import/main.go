// Command roster-import ingests a Med6 roster spreadsheet into the free-access
// allowlist.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"residency-management-api/config"
	"residency-management-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	var (
		filePath  string
		closeDate string
	)

	flag.StringVar(&filePath, "file", "", "path to the roster .xlsx file (required)")
	flag.StringVar(&closeDate, "close-date", "", "roster close date in YYYY-MM-DD (required)")
	flag.Parse()

	if filePath == "" || closeDate == "" {
		flag.Usage()
		log.Fatal("both -file and -close-date are required")
	}

	parsedClose, err := time.Parse("2006-01-02", closeDate)
	if err != nil {
		log.Fatalf("invalid close date '%s': %v", closeDate, err)
	}

	run, err := services.NewRosterService(config.DB).Import(services.ImportInput{
		FilePath:        filePath,
		FileName:        filepath.Base(filePath),
		RosterCloseDate: parsedClose,
		TriggerSource:   "cli",
	})
	if err != nil {
		log.Fatalf("roster import failed: %v", err)
	}

	fmt.Printf("Rows processed: %d, imported: %d, skipped: %d\n",
		run.RowsTotal, run.RowsImported, run.RowsSkipped)
	if run.ErrorSummary != nil {
		fmt.Printf("Skipped rows: %s\n", *run.ErrorSummary)
	}
}
