package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"bms-select/pkg/config"
	"bms-select/pkg/utils"
)

// seedAdminUser creates the default administrator on an empty users table.
// The account is flagged must_change_password so the seed credentials never
// survive past the first login.
func seedAdminUser(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) error {
	log.Println("  - checking for default administrator...")

	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		log.Println("    - users table is not empty. Skipping.")
		return nil
	}

	hashedPassword, err := utils.HashPassword(cfg.Seeder.AdminPassword)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (username, password, must_change_password) VALUES ($1, $2, TRUE)`
	if _, err := db.Exec(ctx, query, cfg.Seeder.AdminUsername, hashedPassword); err != nil {
		return fmt.Errorf("failed to create default administrator: %w", err)
	}

	log.Printf("    - administrator '%s' created, password change required on first login.", cfg.Seeder.AdminUsername)
	return nil
}
