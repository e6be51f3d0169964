package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"bms-select/internal/entities"
	apperrors "bms-select/pkg/errors"
)

const scheduledEquipmentFields = `
	se.id, se.instance_name, se.quantity, se.panel_id, se.equipment_template_id,
	p.panel_name, et.type_key, se.created_at, se.updated_at`

const scheduledEquipmentFrom = `
	FROM scheduled_equipment se
	JOIN panels p ON se.panel_id = p.id
	JOIN equipment_templates et ON se.equipment_template_id = et.id`

type ScheduledEquipmentRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.ScheduledEquipment, error)
	GetByPanel(ctx context.Context, panelID uint64) ([]entities.ScheduledEquipment, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ScheduledEquipment, error)
	CountByTemplate(ctx context.Context, tx pgx.Tx, templateID uint64) (uint64, error)
	Create(ctx context.Context, tx pgx.Tx, equipment entities.ScheduledEquipment) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, equipment entities.ScheduledEquipment) error
	Delete(ctx context.Context, id uint64) error
	ReplaceSelectedPoints(ctx context.Context, tx pgx.Tx, equipmentID uint64, pointIDs []uint64) error
}

type scheduledEquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewScheduledEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) ScheduledEquipmentRepositoryInterface {
	return &scheduledEquipmentRepository{storage: storage, logger: logger}
}

func (r *scheduledEquipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanScheduledEquipment(row pgx.Row) (*entities.ScheduledEquipment, error) {
	var e entities.ScheduledEquipment
	err := row.Scan(
		&e.ID, &e.InstanceName, &e.Quantity, &e.PanelID, &e.EquipmentTemplateID,
		&e.PanelName, &e.TypeKey, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan scheduled equipment: %w", err)
	}
	return &e, nil
}

// loadSelectedPoints fetches point selections for the given equipment ids in
// one query, grouped by equipment id and ordered for stable JSON output.
func (r *scheduledEquipmentRepository) loadSelectedPoints(ctx context.Context, querier Querier, equipmentIDs []uint64) (map[uint64][]uint64, error) {
	grouped := make(map[uint64][]uint64, len(equipmentIDs))
	if len(equipmentIDs) == 0 {
		return grouped, nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.
		Select("scheduled_equipment_id", "point_template_id").
		From("selected_points").
		Where(sq.Eq{"scheduled_equipment_id": equipmentIDs}).
		OrderBy("point_template_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build selected points query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var equipmentID, pointID uint64
		if err := rows.Scan(&equipmentID, &pointID); err != nil {
			return nil, fmt.Errorf("failed to scan selected point: %w", err)
		}
		grouped[equipmentID] = append(grouped[equipmentID], pointID)
	}
	return grouped, rows.Err()
}

func (r *scheduledEquipmentRepository) getList(ctx context.Context, where string, args ...any) ([]entities.ScheduledEquipment, error) {
	query := "SELECT" + scheduledEquipmentFields + scheduledEquipmentFrom
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY se.id"

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.ScheduledEquipment, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		equipment, err := scanScheduledEquipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *equipment)
		ids = append(ids, equipment.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pointsByEquipment, err := r.loadSelectedPoints(ctx, r.storage, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		points := pointsByEquipment[list[i].ID]
		if points == nil {
			points = []uint64{}
		}
		list[i].SelectedPoints = points
	}
	return list, nil
}

func (r *scheduledEquipmentRepository) GetAll(ctx context.Context) ([]entities.ScheduledEquipment, error) {
	return r.getList(ctx, "")
}

func (r *scheduledEquipmentRepository) GetByPanel(ctx context.Context, panelID uint64) ([]entities.ScheduledEquipment, error) {
	return r.getList(ctx, "se.panel_id = $1", panelID)
}

func (r *scheduledEquipmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ScheduledEquipment, error) {
	querier := r.getQuerier(tx)

	query := "SELECT" + scheduledEquipmentFields + scheduledEquipmentFrom + " WHERE se.id = $1"
	equipment, err := scanScheduledEquipment(querier.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	pointsByEquipment, err := r.loadSelectedPoints(ctx, querier, []uint64{equipment.ID})
	if err != nil {
		return nil, err
	}
	equipment.SelectedPoints = pointsByEquipment[equipment.ID]
	if equipment.SelectedPoints == nil {
		equipment.SelectedPoints = []uint64{}
	}
	return equipment, nil
}

func (r *scheduledEquipmentRepository) CountByTemplate(ctx context.Context, tx pgx.Tx, templateID uint64) (uint64, error) {
	query := `SELECT COUNT(*) FROM scheduled_equipment WHERE equipment_template_id = $1`

	var count uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, templateID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *scheduledEquipmentRepository) Create(ctx context.Context, tx pgx.Tx, equipment entities.ScheduledEquipment) (uint64, error) {
	query := `
		INSERT INTO scheduled_equipment (instance_name, quantity, panel_id, equipment_template_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query,
		equipment.InstanceName, equipment.Quantity, equipment.PanelID, equipment.EquipmentTemplateID,
	).Scan(&newID)
	return newID, err
}

func (r *scheduledEquipmentRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, equipment entities.ScheduledEquipment) error {
	query := `
		UPDATE scheduled_equipment
		SET instance_name = $1, quantity = $2, panel_id = $3, equipment_template_id = $4, updated_at = NOW()
		WHERE id = $5
	`
	result, err := r.getQuerier(tx).Exec(ctx, query,
		equipment.InstanceName, equipment.Quantity, equipment.PanelID, equipment.EquipmentTemplateID, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *scheduledEquipmentRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM scheduled_equipment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *scheduledEquipmentRepository) ReplaceSelectedPoints(ctx context.Context, tx pgx.Tx, equipmentID uint64, pointIDs []uint64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM selected_points WHERE scheduled_equipment_id = $1`, equipmentID); err != nil {
		return err
	}
	if len(pointIDs) == 0 {
		return nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Insert("selected_points").Columns("scheduled_equipment_id", "point_template_id")
	for _, pointID := range pointIDs {
		builder = builder.Values(equipmentID, pointID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build selected points insert: %w", err)
	}
	_, err = tx.Exec(ctx, query, args...)
	return err
}
