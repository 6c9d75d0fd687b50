package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteColumns = `id, client_name, project_description, created_at, labor_cost, materials_cost, total_cost`

// QuoteRepo cotizaciones y líneas sobre PostgreSQL. Las escrituras pasan por TxRunner.
type QuoteRepo struct {
	q  Querier
	tx *TxRunner
}

// NewQuoteRepository construye el adaptador.
func NewQuoteRepository(q Querier, tx *TxRunner) *QuoteRepo {
	return &QuoteRepo{q: q, tx: tx}
}

// Create inserta cabecera y líneas en una transacción; las líneas van en un solo batch.
func (r *QuoteRepo) Create(ctx context.Context, quote *entity.Quote) error {
	return r.tx.Run(ctx, func(q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO quotes (`+quoteColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			quote.ID, quote.ClientName, quote.ProjectDescription, quote.CreatedAt,
			quote.LaborCost, quote.MaterialsCost, quote.TotalCost,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert quote: %w", err)
		}
		if len(quote.Items) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, it := range quote.Items {
			batch.Queue(`
				INSERT INTO quote_items
					(quote_id, position, material_id, material_name, unit_cost, quantity, unit, total_cost)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				quote.ID, i, it.MaterialID, it.MaterialName, it.UnitCost, it.Quantity, it.Unit.String(), it.TotalCost,
			)
		}
		if err := q.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert quote items: %w", err)
		}
		return nil
	})
}

// GetByID cabecera con sus líneas; (nil, nil) si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := scanQuote(r.q.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.Quote{q}); err != nil {
		return nil, err
	}
	return q, nil
}

// List orden cronológico; empates por id.
func (r *QuoteRepo) List(ctx context.Context) ([]*entity.Quote, error) {
	return r.query(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at, id`)
}

// Recent las n más recientes primero.
func (r *QuoteRepo) Recent(ctx context.Context, n int) ([]*entity.Quote, error) {
	if n <= 0 {
		return []*entity.Quote{}, nil
	}
	return r.query(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at DESC, id DESC LIMIT $1`, n)
}

func (r *QuoteRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Quote, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Quote, error) {
		return scanQuote(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan quotes: %w", err)
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachItems carga las líneas de todas las cotizaciones con una sola consulta.
func (r *QuoteRepo) attachItems(ctx context.Context, quotes []*entity.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Quote, len(quotes))
	ids := make([]string, 0, len(quotes))
	for _, q := range quotes {
		q.Items = []entity.QuoteLineItem{}
		byID[q.ID] = q
		ids = append(ids, q.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT quote_id, material_id, material_name, unit_cost, quantity, unit, total_cost
		FROM quote_items
		WHERE quote_id = ANY($1)
		ORDER BY quote_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list quote items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			quoteID, unit string
			it            entity.QuoteLineItem
		)
		if err := rows.Scan(&quoteID, &it.MaterialID, &it.MaterialName, &it.UnitCost, &it.Quantity, &unit, &it.TotalCost); err != nil {
			return fmt.Errorf("scan quote item: %w", err)
		}
		if it.Unit, err = entity.ParseUnit(unit); err != nil {
			return err
		}
		if q, ok := byID[quoteID]; ok {
			q.Items = append(q.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list quote items: %w", err)
	}
	return nil
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	err := row.Scan(&q.ID, &q.ClientName, &q.ProjectDescription, &q.CreatedAt, &q.LaborCost, &q.MaterialsCost, &q.TotalCost)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
