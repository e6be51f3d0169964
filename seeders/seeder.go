package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"bms-select/pkg/config"
)

// SeedAdminUser ensures a fresh install has an administrator to log in with.
func SeedAdminUser(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) error {
	log.Println("running admin seeder...")
	return seedAdminUser(ctx, db, cfg)
}

// SeedStarterLibrary ensures a fresh install has the standard point library,
// equipment templates, panels and example schedule entries.
func SeedStarterLibrary(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("running starter library seeder...")
	return seedStarterLibrary(ctx, db)
}

// SeedAll runs every seeder in dependency order. Each one is a no-op once
// its table has data, so this is safe on every boot.
func SeedAll(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) error {
	if err := SeedAdminUser(ctx, db, cfg); err != nil {
		return err
	}
	return SeedStarterLibrary(ctx, db)
}
