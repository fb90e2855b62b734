package expense

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// fakeExpenseRepository stores copies so use cases cannot mutate stored state.
type fakeExpenseRepository struct {
	mu       sync.Mutex
	expenses map[uuid.UUID]entity.Expense
	err      error
}

func newFakeExpenseRepository(seed ...*entity.Expense) *fakeExpenseRepository {
	r := &fakeExpenseRepository{expenses: make(map[uuid.UUID]entity.Expense)}
	for _, e := range seed {
		r.expenses[e.ID] = *e
	}
	return r
}

func (r *fakeExpenseRepository) Create(_ context.Context, expense *entity.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.expenses[expense.ID] = *expense
	return nil
}

func (r *fakeExpenseRepository) FindByID(_ context.Context, id, userID uuid.UUID) (*entity.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.expenses[id]
	if !ok || e.UserID != userID {
		return nil, domainerror.ErrExpenseNotFound
	}
	return &e, nil
}

func (r *fakeExpenseRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Expense, error) {
	return r.FindByFilter(ctx, adapter.ExpenseFilter{UserID: userID})
}

func (r *fakeExpenseRepository) FindByFilter(_ context.Context, filter adapter.ExpenseFilter) ([]*entity.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.Expense
	for _, e := range r.expenses {
		if e.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(e.Category, filter.Category) {
			continue
		}
		if filter.StartDate != nil && e.TransactionDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.TransactionDate.After(*filter.EndDate) {
			continue
		}
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeExpenseRepository) Update(_ context.Context, expense *entity.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.expenses[expense.ID]; !ok {
		return domainerror.ErrExpenseNotFound
	}
	r.expenses[expense.ID] = *expense
	return nil
}

func (r *fakeExpenseRepository) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	e, ok := r.expenses[id]
	if !ok || e.UserID != userID {
		return domainerror.ErrExpenseNotFound
	}
	delete(r.expenses, id)
	return nil
}

func (r *fakeExpenseRepository) stored(id uuid.UUID) (entity.Expense, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.expenses[id]
	return e, ok
}
