package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/coupleswish/wishes-backend/config"
	"github.com/coupleswish/wishes-backend/internal/app/repository"
	"github.com/coupleswish/wishes-backend/internal/app/service"
	"github.com/coupleswish/wishes-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports a wishlist workbook (the layout produced by the export endpoint)
// into an existing couple.
func main() {
	if len(os.Args) < 4 {
		log.Fatal("Usage: go run cmd/seed/main.go <couple_id> <user_id> <xlsx_file_path>")
	}

	coupleID, err := strconv.ParseUint(os.Args[1], 10, 64)
	if err != nil || coupleID == 0 {
		log.Fatal("Invalid couple id:", os.Args[1])
	}
	userID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil || userID == 0 {
		log.Fatal("Invalid user id:", os.Args[2])
	}
	filePath := os.Args[3]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	gormDB, err := db.Initialize(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	wishService := service.NewWishService(
		gormDB,
		repository.NewUserRepository(gormDB),
		repository.NewCoupleRepository(gormDB),
		repository.NewWishRepository(gormDB),
		nil,
	)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	wishes, err := readWishesFromXLSX(filePath, uint(coupleID), userID)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total wishes to import: %d\n", len(wishes))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	ctx := context.Background()
	imported := 0
	for _, in := range wishes {
		if _, err := wishService.CreateWish(ctx, in); err != nil {
			log.Fatalf("Failed to import wish %q after %d rows: %v", in.Name, imported, err)
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total wishes imported: %d\n", imported)
}

func readWishesFromXLSX(filePath string, coupleID uint, userID int64) ([]service.CreateWishInput, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := service.WishSheetName
	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	wishes, skipped := parseWishRows(rows, coupleID, userID)

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid wishes: %d\n", len(wishes))
	fmt.Printf("  Skipped rows: %d\n", skipped)

	return wishes, nil
}

// parseWishRows reads rows in export column order:
// ID, Name, Price, Article, URL, Image. The header row is skipped.
func parseWishRows(rows [][]string, coupleID uint, userID int64) ([]service.CreateWishInput, int) {
	var wishes []service.CreateWishInput
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}

		name := cell(row, 1)
		if name == "" {
			skipped++
			continue
		}

		price := 0.0
		if raw := cell(row, 2); raw != "" {
			p, err := strconv.ParseFloat(raw, 64)
			if err != nil || p < 0 {
				skipped++
				continue
			}
			price = p
		}

		var article *int64
		if raw := cell(row, 3); raw != "" {
			a, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				skipped++
				continue
			}
			article = &a
		}

		wishes = append(wishes, service.CreateWishInput{
			Name:        name,
			Price:       price,
			CoupleID:    coupleID,
			UserAddedID: userID,
			Article:     article,
			URL:         cell(row, 4),
			Image:       cell(row, 5),
		})
	}

	return wishes, skipped
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
