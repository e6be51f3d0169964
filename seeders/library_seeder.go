package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seedStarterLibrary populates a fresh database with the standard HVAC
// point library, the three stock equipment templates, two panels and two
// example schedule entries. An empty point_templates table is the signal
// that the install is fresh; everything goes in within one transaction.
func seedStarterLibrary(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - checking for starter library...")

	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM point_templates").Scan(&count); err != nil {
		return fmt.Errorf("failed to count point templates: %w", err)
	}
	if count > 0 {
		log.Println("    - point library is not empty. Skipping.")
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	pointIDs := make(map[int]uint64, len(starterPoints))
	for _, point := range starterPoints {
		var partNumber *string
		if point.PartNumber != "" {
			partNumber = &point.PartNumber
		}

		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO point_templates (name, point_type, part_number) VALUES ($1, $2, $3) RETURNING id`,
			point.Name, point.PointType, partNumber,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed point '%s': %w", point.Name, err)
		}
		pointIDs[point.Ordinal] = id
	}

	templateIDs := make(map[string]uint64, len(starterTemplates))
	for _, template := range starterTemplates {
		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO equipment_templates (type_key, name) VALUES ($1, $2) RETURNING id`,
			template.TypeKey, template.Name,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed template '%s': %w", template.TypeKey, err)
		}
		templateIDs[template.TypeKey] = id

		for _, ordinal := range template.Points {
			_, err := tx.Exec(ctx,
				`INSERT INTO equipment_template_points (equipment_template_id, point_template_id, quantity) VALUES ($1, $2, 1)`,
				id, pointIDs[ordinal],
			)
			if err != nil {
				return fmt.Errorf("failed to attach point %d to template '%s': %w", ordinal, template.TypeKey, err)
			}
		}
	}

	panelIDs := make(map[string]uint64, len(starterPanels))
	for _, panel := range starterPanels {
		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO panels (panel_name, floor) VALUES ($1, $2) RETURNING id`,
			panel.PanelName, panel.Floor,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed panel '%s': %w", panel.PanelName, err)
		}
		panelIDs[panel.PanelName] = id
	}

	for _, instance := range starterSchedule {
		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO scheduled_equipment (instance_name, quantity, panel_id, equipment_template_id) VALUES ($1, $2, $3, $4) RETURNING id`,
			instance.InstanceName, instance.Quantity, panelIDs[instance.PanelName], templateIDs[instance.TypeKey],
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed schedule entry '%s': %w", instance.InstanceName, err)
		}

		for _, ordinal := range instance.SelectedPoints {
			_, err := tx.Exec(ctx,
				`INSERT INTO selected_points (scheduled_equipment_id, point_template_id) VALUES ($1, $2)`,
				id, pointIDs[ordinal],
			)
			if err != nil {
				return fmt.Errorf("failed to select point %d for '%s': %w", ordinal, instance.InstanceName, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit starter library: %w", err)
	}

	log.Println("    - starter library seeded.")
	return nil
}
