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
	"bms-select/internal/infrastructure/bd"
	apperrors "bms-select/pkg/errors"
	"bms-select/pkg/types"
)

const (
	partTable  = "parts"
	partFields = "id, part_number, description, category, cost, country_of_origin, cable_recommendation, created_at, updated_at"
)

// partMap whitelists the query string fields for filtering and sorting.
var partMap = map[string]string{
	"id":                "id",
	"part_number":       "part_number",
	"category":          "category",
	"country_of_origin": "country_of_origin",
	"cost":              "cost",
	"created_at":        "created_at",
	"updated_at":        "updated_at",
}

type PartRepositoryInterface interface {
	GetParts(ctx context.Context, filter types.Filter) ([]entities.Part, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Part, error)
	FindByPartNumber(ctx context.Context, tx pgx.Tx, partNumber string) (*entities.Part, error)
	ListPartNumbers(ctx context.Context) ([]string, error)
	Create(ctx context.Context, tx pgx.Tx, part entities.Part) (uint64, error)
}

type partRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPartRepository(storage *pgxpool.Pool, logger *zap.Logger) PartRepositoryInterface {
	return &partRepository{storage: storage, logger: logger}
}

func (r *partRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanPart(row pgx.Row) (*entities.Part, error) {
	var p entities.Part
	var category, countryOfOrigin, cableRecommendation sql.NullString
	var cost sql.NullFloat64

	err := row.Scan(
		&p.ID, &p.PartNumber, &p.Description, &category, &cost,
		&countryOfOrigin, &cableRecommendation, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan part: %w", err)
	}

	if category.Valid {
		p.Category = &category.String
	}
	if cost.Valid {
		p.Cost = &cost.Float64
	}
	if countryOfOrigin.Valid {
		p.CountryOfOrigin = &countryOfOrigin.String
	}
	if cableRecommendation.Valid {
		p.CableRecommendation = &cableRecommendation.String
	}
	return &p, nil
}

func (r *partRepository) GetParts(ctx context.Context, filter types.Filter) ([]entities.Part, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"part_number": pat},
				sq.ILike{"description": pat},
			})
		}
		return b
	}

	countBuilder := psql.Select("COUNT(id)").From(partTable)
	countBuilder = applySearch(countBuilder)

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder = bd.ApplyListParams(countBuilder, countFilter, partMap)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build parts count query: %w", err)
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Part{}, 0, nil
	}

	baseBuilder := psql.Select(partFields).From(partTable)
	baseBuilder = applySearch(baseBuilder)
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("part_number ASC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, partMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build parts query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	parts := make([]entities.Part, 0, filter.Limit)
	for rows.Next() {
		part, err := scanPart(rows)
		if err != nil {
			return nil, 0, err
		}
		parts = append(parts, *part)
	}
	return parts, total, rows.Err()
}

func (r *partRepository) findOne(ctx context.Context, querier Querier, where sq.Eq) (*entities.Part, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(partFields).From(partTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build part query: %w", err)
	}
	return scanPart(querier.QueryRow(ctx, query, args...))
}

func (r *partRepository) FindByID(ctx context.Context, id uint64) (*entities.Part, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"id": id})
}

func (r *partRepository) FindByPartNumber(ctx context.Context, tx pgx.Tx, partNumber string) (*entities.Part, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"part_number": partNumber})
}

// ListPartNumbers returns every catalog part number. The importer uses it to
// skip rows that already exist without a query per row.
func (r *partRepository) ListPartNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.storage.Query(ctx, `SELECT part_number FROM parts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	numbers := make([]string, 0)
	for rows.Next() {
		var pn string
		if err := rows.Scan(&pn); err != nil {
			return nil, fmt.Errorf("failed to scan part number: %w", err)
		}
		numbers = append(numbers, pn)
	}
	return numbers, rows.Err()
}

func (r *partRepository) Create(ctx context.Context, tx pgx.Tx, part entities.Part) (uint64, error) {
	query := `
		INSERT INTO parts (part_number, description, category, cost, country_of_origin, cable_recommendation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query,
		part.PartNumber, part.Description, part.Category, part.Cost,
		part.CountryOfOrigin, part.CableRecommendation,
	).Scan(&newID)
	return newID, err
}
