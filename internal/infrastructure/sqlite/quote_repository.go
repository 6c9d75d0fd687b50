package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteColumns = `id, client_name, project_description, created_at, labor_cost, materials_cost, total_cost`

// QuoteRepo cotizaciones y sus líneas sobre SQLite.
type QuoteRepo struct {
	db *sql.DB
}

// NewQuoteRepository construye el adaptador.
func NewQuoteRepository(db *sql.DB) *QuoteRepo {
	return &QuoteRepo{db: db}
}

// Create inserta cabecera y líneas en una sola transacción.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO quotes (`+quoteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.ClientName, q.ProjectDescription, formatTime(q.CreatedAt),
		q.LaborCost.String(), q.MaterialsCost.String(), q.TotalCost.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quote: %w", err)
	}

	for i, it := range q.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO quote_items
				(quote_id, position, material_id, material_name, unit_cost, quantity, unit, total_cost)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			q.ID, i, it.MaterialID, it.MaterialName,
			it.UnitCost.String(), it.Quantity.String(), it.Unit.String(), it.TotalCost.String(),
		)
		if err != nil {
			return fmt.Errorf("insert quote item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID cabecera con sus líneas; (nil, nil) si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := scanQuote(r.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.Quote{q}); err != nil {
		return nil, err
	}
	return q, nil
}

// List orden cronológico; empates por orden de inserción.
func (r *QuoteRepo) List(ctx context.Context) ([]*entity.Quote, error) {
	return r.query(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at, rowid`)
}

// Recent las n más recientes primero.
func (r *QuoteRepo) Recent(ctx context.Context, n int) ([]*entity.Quote, error) {
	if n <= 0 {
		return []*entity.Quote{}, nil
	}
	return r.query(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at DESC, rowid DESC LIMIT ?`, n)
}

func (r *QuoteRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Quote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	list := []*entity.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	err = rows.Err()
	rows.Close() // liberar la conexión antes de leer las líneas
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
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
	args := make([]any, 0, len(quotes))
	for _, q := range quotes {
		byID[q.ID] = q
		args = append(args, q.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")

	rows, err := r.db.QueryContext(ctx, `
		SELECT quote_id, material_id, material_name, unit_cost, quantity, unit, total_cost
		FROM quote_items
		WHERE quote_id IN (`+placeholders+`)
		ORDER BY quote_id, position`, args...)
	if err != nil {
		return fmt.Errorf("list quote items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			quoteID, unit    string
			cost, qty, total string
			it               entity.QuoteLineItem
		)
		if err := rows.Scan(&quoteID, &it.MaterialID, &it.MaterialName, &cost, &qty, &unit, &total); err != nil {
			return fmt.Errorf("scan quote item: %w", err)
		}
		if it.UnitCost, err = decimal.NewFromString(cost); err != nil {
			return fmt.Errorf("quote item unit_cost: %w", err)
		}
		if it.Quantity, err = decimal.NewFromString(qty); err != nil {
			return fmt.Errorf("quote item quantity: %w", err)
		}
		if it.TotalCost, err = decimal.NewFromString(total); err != nil {
			return fmt.Errorf("quote item total_cost: %w", err)
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
	for _, q := range quotes {
		if q.Items == nil {
			q.Items = []entity.QuoteLineItem{}
		}
	}
	return nil
}

func scanQuote(s scanner) (*entity.Quote, error) {
	var (
		q                  entity.Quote
		created            string
		labor, mats, total string
	)
	if err := s.Scan(&q.ID, &q.ClientName, &q.ProjectDescription, &created, &labor, &mats, &total); err != nil {
		return nil, err
	}
	var err error
	if q.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if q.LaborCost, err = decimal.NewFromString(labor); err != nil {
		return nil, fmt.Errorf("labor_cost: %w", err)
	}
	if q.MaterialsCost, err = decimal.NewFromString(mats); err != nil {
		return nil, fmt.Errorf("materials_cost: %w", err)
	}
	if q.TotalCost, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("total_cost: %w", err)
	}
	return &q, nil
}
