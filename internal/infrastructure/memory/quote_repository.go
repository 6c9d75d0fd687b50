package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo cotizaciones en memoria, en orden de creación.
type QuoteRepo struct {
	mu     sync.RWMutex
	quotes []entity.Quote
}

// NewQuoteRepository construye el repositorio vacío.
func NewQuoteRepository() *QuoteRepo { return &QuoteRepo{} }

func (r *QuoteRepo) Create(_ context.Context, quote *entity.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.quotes {
		if r.quotes[i].ID == quote.ID {
			return domain.ErrDuplicate
		}
	}
	r.quotes = append(r.quotes, cloneQuote(quote))
	return nil
}

func (r *QuoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.quotes {
		if r.quotes[i].ID == id {
			q := cloneQuote(&r.quotes[i])
			return &q, nil
		}
	}
	return nil, nil
}

// List orden cronológico por CreatedAt; empates conservan el orden de inserción.
func (r *QuoteRepo) List(_ context.Context) ([]*entity.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.Quote, 0, len(r.quotes))
	for i := range r.quotes {
		q := cloneQuote(&r.quotes[i])
		list = append(list, &q)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *QuoteRepo) Recent(ctx context.Context, n int) ([]*entity.Quote, error) {
	if n <= 0 {
		return []*entity.Quote{}, nil
	}
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Quote, 0, n)
	for i := len(list) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

func cloneQuote(q *entity.Quote) entity.Quote {
	out := *q
	out.Items = make([]entity.QuoteLineItem, len(q.Items))
	copy(out.Items, q.Items)
	return out
}
