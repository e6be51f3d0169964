package repositories

import (
	"context"
	"database/sql"
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
	pointTemplateTable  = "point_templates"
	pointTemplateFields = "id, name, point_type, part_number, created_at, updated_at"
)

type PointTemplateRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.PointTemplate, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.PointTemplate, error)
	FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.PointTemplate, error)
	ListExistingIDs(ctx context.Context, tx pgx.Tx, ids []uint64) ([]uint64, error)
	CountEquipmentTemplateRefs(ctx context.Context, tx pgx.Tx, pointID uint64) (uint64, error)
	Create(ctx context.Context, tx pgx.Tx, point entities.PointTemplate) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, point entities.PointTemplate) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type pointTemplateRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPointTemplateRepository(storage *pgxpool.Pool, logger *zap.Logger) PointTemplateRepositoryInterface {
	return &pointTemplateRepository{storage: storage, logger: logger}
}

func (r *pointTemplateRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanPointTemplate(row pgx.Row) (*entities.PointTemplate, error) {
	var p entities.PointTemplate
	var partNumber sql.NullString

	err := row.Scan(&p.ID, &p.Name, &p.PointType, &partNumber, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan point template: %w", err)
	}

	if partNumber.Valid {
		p.PartNumber = &partNumber.String
	}
	return &p, nil
}

func (r *pointTemplateRepository) GetAll(ctx context.Context) ([]entities.PointTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, pointTemplateFields, pointTemplateTable)

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]entities.PointTemplate, 0)
	for rows.Next() {
		point, err := scanPointTemplate(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *point)
	}
	return points, rows.Err()
}

func (r *pointTemplateRepository) findOne(ctx context.Context, querier Querier, where sq.Eq) (*entities.PointTemplate, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(pointTemplateFields).From(pointTemplateTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build point template query: %w", err)
	}
	return scanPointTemplate(querier.QueryRow(ctx, query, args...))
}

func (r *pointTemplateRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.PointTemplate, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"id": id})
}

func (r *pointTemplateRepository) FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.PointTemplate, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"name": name})
}

// ListExistingIDs narrows the given ids to the ones that exist. Point
// selections are filtered through it on write, so unknown ids are dropped
// instead of failing the request.
func (r *pointTemplateRepository) ListExistingIDs(ctx context.Context, tx pgx.Tx, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return []uint64{}, nil
	}
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id").From(pointTemplateTable).Where(sq.Eq{"id": ids}).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build point template ids query: %w", err)
	}

	rows, err := r.getQuerier(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make([]uint64, 0, len(ids))
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan point template id: %w", err)
		}
		existing = append(existing, id)
	}
	return existing, rows.Err()
}

func (r *pointTemplateRepository) CountEquipmentTemplateRefs(ctx context.Context, tx pgx.Tx, pointID uint64) (uint64, error) {
	query := `SELECT COUNT(*) FROM equipment_template_points WHERE point_template_id = $1`

	var count uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, pointID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *pointTemplateRepository) Create(ctx context.Context, tx pgx.Tx, point entities.PointTemplate) (uint64, error) {
	query := `
		INSERT INTO point_templates (name, point_type, part_number, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query, point.Name, point.PointType, point.PartNumber).Scan(&newID)
	return newID, err
}

func (r *pointTemplateRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, point entities.PointTemplate) error {
	query := `
		UPDATE point_templates
		SET name = $1, point_type = $2, part_number = $3, updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.getQuerier(tx).Exec(ctx, query, point.Name, point.PointType, point.PartNumber, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *pointTemplateRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := r.getQuerier(tx).Exec(ctx, `DELETE FROM point_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
