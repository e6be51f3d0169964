package main

import (
	"context"
	"flag"
	"log"

	"bms-select/migrations"
	"bms-select/pkg/config"
	"bms-select/pkg/database/postgresql"
	"bms-select/seeders"
)

func main() {
	runAdmin := flag.Bool("admin", false, "seed the default administrator account")
	runLibrary := flag.Bool("library", false, "seed the starter point library, templates, panels and schedule")
	runAll := flag.Bool("all", false, "run every seeder (equivalent to -admin -library)")
	migrate := flag.Bool("migrate", true, "apply pending migrations before seeding")

	flag.Parse()

	if !*runAdmin && !*runLibrary && !*runAll {
		log.Println("no seeder selected.")
		log.Println("")
		flag.PrintDefaults()
		log.Println("")
		log.Println("examples:")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("  go run ./seeders/cmd/seed -library")
		return
	}

	cfg := config.New()
	log.Println("using DSN:", cfg.Postgres.DSN)
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *migrate {
		if err := migrations.Up(dbPool); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	ctx := context.Background()

	if *runAll || *runAdmin {
		if err := seeders.SeedAdminUser(ctx, dbPool, cfg); err != nil {
			log.Fatalf("admin seeder failed: %v", err)
		}
	}

	if *runAll || *runLibrary {
		if err := seeders.SeedStarterLibrary(ctx, dbPool); err != nil {
			log.Fatalf("library seeder failed: %v", err)
		}
	}

	log.Println("seeding finished.")
}
