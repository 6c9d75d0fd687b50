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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, name, unit_cost, quantity, unit, created_at, updated_at`

// MaterialRepo implementación del puerto MaterialRepository sobre SQLite.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste un nuevo material.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `INSERT INTO materials (` + materialColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		m.ID, m.Name, m.UnitCost.String(), m.Quantity.String(), m.Unit.String(),
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por ID; (nil, nil) si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = ?`
	m, err := scanMaterial(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// List en orden de alta.
func (r *MaterialRepo) List(ctx context.Context) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials ORDER BY seq`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Update reemplaza los campos editables. ErrNotFound si no existe.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials SET name = ?, unit_cost = ?, quantity = ?, unit = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		m.Name, m.UnitCost.String(), m.Quantity.String(), m.Unit.String(), formatTime(m.UpdatedAt), m.ID,
	)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: material %s", domain.ErrNotFound, m.ID)
	}
	return nil
}

// Delete elimina un material; no falla si no existe.
func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM materials WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMaterial(s scanner) (*entity.Material, error) {
	var (
		m                entity.Material
		cost, qty, unit  string
		created, updated string
	)
	if err := s.Scan(&m.ID, &m.Name, &cost, &qty, &unit, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if m.UnitCost, err = decimal.NewFromString(cost); err != nil {
		return nil, fmt.Errorf("unit_cost: %w", err)
	}
	if m.Quantity, err = decimal.NewFromString(qty); err != nil {
		return nil, fmt.Errorf("quantity: %w", err)
	}
	if m.Unit, err = entity.ParseUnit(unit); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &m, nil
}

// isUniqueViolation detecta SQLITE_CONSTRAINT_UNIQUE / PRIMARYKEY por mensaje.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY constraint failed")
}
