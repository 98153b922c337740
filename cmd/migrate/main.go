package main

import (
	"flag"
	"log"

	"permitwork/internal/config"
	"permitwork/internal/database"
	"permitwork/internal/domain/permit"
	"permitwork/internal/domain/upload"
)

func main() {
	photos := flag.Bool("photos", true, "also migrate the photo metadata table")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}

	log.Printf("Migrating %s...", cfg.PermitTable)
	if err := permit.Migrate(db, cfg.PermitTable); err != nil {
		log.Fatal("permit table migration failed: ", err)
	}

	if *photos {
		log.Printf("Migrating %s...", cfg.PhotosTable)
		if err := upload.Migrate(db, cfg.PhotosTable); err != nil {
			log.Fatal("photos table migration failed: ", err)
		}
	}

	log.Println("Migration completed")
}
