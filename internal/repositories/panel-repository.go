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
	panelTable  = "panels"
	panelFields = "id, panel_name, floor, created_at, updated_at"
)

type PanelRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.Panel, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Panel, error)
	FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.Panel, error)
	Create(ctx context.Context, tx pgx.Tx, panel entities.Panel) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, panel entities.Panel) error
	Delete(ctx context.Context, id uint64) error
}

type panelRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPanelRepository(storage *pgxpool.Pool, logger *zap.Logger) PanelRepositoryInterface {
	return &panelRepository{storage: storage, logger: logger}
}

func (r *panelRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanPanel(row pgx.Row) (*entities.Panel, error) {
	var p entities.Panel
	err := row.Scan(&p.ID, &p.PanelName, &p.Floor, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan panel: %w", err)
	}
	return &p, nil
}

func (r *panelRepository) GetAll(ctx context.Context) ([]entities.Panel, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, panelFields, panelTable)

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	panels := make([]entities.Panel, 0)
	for rows.Next() {
		panel, err := scanPanel(rows)
		if err != nil {
			return nil, err
		}
		panels = append(panels, *panel)
	}
	return panels, rows.Err()
}

func (r *panelRepository) findOne(ctx context.Context, querier Querier, where sq.Eq) (*entities.Panel, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(panelFields).From(panelTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build panel query: %w", err)
	}
	return scanPanel(querier.QueryRow(ctx, query, args...))
}

func (r *panelRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Panel, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"id": id})
}

func (r *panelRepository) FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.Panel, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"panel_name": name})
}

func (r *panelRepository) Create(ctx context.Context, tx pgx.Tx, panel entities.Panel) (uint64, error) {
	query := `
		INSERT INTO panels (panel_name, floor, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query, panel.PanelName, panel.Floor).Scan(&newID)
	return newID, err
}

func (r *panelRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, panel entities.Panel) error {
	query := `
		UPDATE panels
		SET panel_name = $1, floor = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.getQuerier(tx).Exec(ctx, query, panel.PanelName, panel.Floor, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes the panel; scheduled equipment on it goes with it through
// the ON DELETE CASCADE on scheduled_equipment.panel_id.
func (r *panelRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM panels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
