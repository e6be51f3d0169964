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

const (
	equipmentTemplateTable  = "equipment_templates"
	equipmentTemplateFields = "id, type_key, name, created_at, updated_at"
)

type EquipmentTemplateRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.EquipmentTemplate, error)
	FindByTypeKey(ctx context.Context, tx pgx.Tx, typeKey string) (*entities.EquipmentTemplate, error)
	ExistsByTypeKey(ctx context.Context, tx pgx.Tx, typeKey string) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, template entities.EquipmentTemplate) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, template entities.EquipmentTemplate) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	ReplacePoints(ctx context.Context, tx pgx.Tx, templateID uint64, points []entities.EquipmentTemplatePoint) error
}

type equipmentTemplateRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentTemplateRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentTemplateRepositoryInterface {
	return &equipmentTemplateRepository{storage: storage, logger: logger}
}

func (r *equipmentTemplateRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanEquipmentTemplate(row pgx.Row) (*entities.EquipmentTemplate, error) {
	var t entities.EquipmentTemplate
	err := row.Scan(&t.ID, &t.TypeKey, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan equipment template: %w", err)
	}
	return &t, nil
}

// loadPoints fetches the point rows for the given template ids in one query
// and groups them by template id, keeping the insertion order stable.
func (r *equipmentTemplateRepository) loadPoints(ctx context.Context, querier Querier, templateIDs []uint64) (map[uint64][]entities.EquipmentTemplatePoint, error) {
	grouped := make(map[uint64][]entities.EquipmentTemplatePoint, len(templateIDs))
	if len(templateIDs) == 0 {
		return grouped, nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.
		Select("equipment_template_id", "point_template_id", "quantity").
		From("equipment_template_points").
		Where(sq.Eq{"equipment_template_id": templateIDs}).
		OrderBy("point_template_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build template points query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var templateID uint64
		var point entities.EquipmentTemplatePoint
		if err := rows.Scan(&templateID, &point.PointTemplateID, &point.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan template point: %w", err)
		}
		grouped[templateID] = append(grouped[templateID], point)
	}
	return grouped, rows.Err()
}

func (r *equipmentTemplateRepository) GetAll(ctx context.Context) ([]entities.EquipmentTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, equipmentTemplateFields, equipmentTemplateTable)

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]entities.EquipmentTemplate, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		template, err := scanEquipmentTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *template)
		ids = append(ids, template.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pointsByTemplate, err := r.loadPoints(ctx, r.storage, ids)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		points := pointsByTemplate[templates[i].ID]
		if points == nil {
			points = []entities.EquipmentTemplatePoint{}
		}
		templates[i].Points = points
	}
	return templates, nil
}

func (r *equipmentTemplateRepository) FindByTypeKey(ctx context.Context, tx pgx.Tx, typeKey string) (*entities.EquipmentTemplate, error) {
	querier := r.getQuerier(tx)

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(equipmentTemplateFields).From(equipmentTemplateTable).Where(sq.Eq{"type_key": typeKey}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build equipment template query: %w", err)
	}

	template, err := scanEquipmentTemplate(querier.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	pointsByTemplate, err := r.loadPoints(ctx, querier, []uint64{template.ID})
	if err != nil {
		return nil, err
	}
	template.Points = pointsByTemplate[template.ID]
	if template.Points == nil {
		template.Points = []entities.EquipmentTemplatePoint{}
	}
	return template, nil
}

func (r *equipmentTemplateRepository) ExistsByTypeKey(ctx context.Context, tx pgx.Tx, typeKey string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM equipment_templates WHERE type_key = $1)`

	var exists bool
	if err := r.getQuerier(tx).QueryRow(ctx, query, typeKey).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *equipmentTemplateRepository) Create(ctx context.Context, tx pgx.Tx, template entities.EquipmentTemplate) (uint64, error) {
	query := `
		INSERT INTO equipment_templates (type_key, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query, template.TypeKey, template.Name).Scan(&newID)
	return newID, err
}

func (r *equipmentTemplateRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, template entities.EquipmentTemplate) error {
	query := `UPDATE equipment_templates SET type_key = $1, name = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.getQuerier(tx).Exec(ctx, query, template.TypeKey, template.Name, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *equipmentTemplateRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := r.getQuerier(tx).Exec(ctx, `DELETE FROM equipment_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplacePoints swaps the template's point rows for the given set. Runs in
// the caller's transaction so the template never shows a half-written list.
func (r *equipmentTemplateRepository) ReplacePoints(ctx context.Context, tx pgx.Tx, templateID uint64, points []entities.EquipmentTemplatePoint) error {
	if _, err := tx.Exec(ctx, `DELETE FROM equipment_template_points WHERE equipment_template_id = $1`, templateID); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Insert("equipment_template_points").Columns("equipment_template_id", "point_template_id", "quantity")
	for _, point := range points {
		builder = builder.Values(templateID, point.PointTemplateID, point.Quantity)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build template points insert: %w", err)
	}
	_, err = tx.Exec(ctx, query, args...)
	return err
}
