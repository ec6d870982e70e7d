// Package memory provides a session-scoped, in-process implementation of the
// storage.Store interface.
package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/roomies/internal/models"
	"github.com/mmynk/roomies/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps the ledger as an immutable snapshot that is replaced wholesale
// on every write. Readers never block; writers are serialized.
type Store struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[models.Ledger]
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithSeed starts the store with a copy of the given ledger.
func WithSeed(seed models.Ledger) Option {
	return func(s *Store) {
		snap := models.Ledger{
			Users:    cloneUsers(seed.Users, 0),
			Expenses: cloneExpenses(seed.Expenses),
		}
		s.current.Store(&snap)
	}
}

// WithClock overrides the clock used for CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty Store unless WithSeed is given.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	s.current.Store(&models.Ledger{})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current ledger. It never blocks on writers.
func (s *Store) Snapshot(ctx context.Context) (models.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return models.Ledger{}, err
	}
	return *s.current.Load(), nil
}

// CreateUser appends a user, generating an ID if needed.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	if user.ID == "" {
		user.ID = "user-" + uuid.New().String()
	}
	for _, u := range prev.Users {
		if u.ID == user.ID {
			return fmt.Errorf("failed to create user %q: %w", user.ID, storage.ErrDuplicateID)
		}
	}

	users := cloneUsers(prev.Users, 1)
	users = append(users, *user)
	s.current.Store(&models.Ledger{Users: users, Expenses: prev.Expenses})
	return nil
}

// CreateExpense prepends an expense, generating an ID and timestamp if needed.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	if expense.ID == "" {
		expense.ID = "exp-" + uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = s.now().Unix()
	}
	for _, e := range prev.Expenses {
		if e.ID == expense.ID {
			return fmt.Errorf("failed to create expense %q: %w", expense.ID, storage.ErrDuplicateID)
		}
	}

	stored := *expense
	stored.SplitWith = append([]string(nil), expense.SplitWith...)

	expenses := make([]models.Expense, 0, len(prev.Expenses)+1)
	expenses = append(expenses, stored)
	expenses = append(expenses, prev.Expenses...)
	s.current.Store(&models.Ledger{Users: prev.Users, Expenses: expenses})
	return nil
}

// Close is a no-op; the session ends with the process.
func (s *Store) Close() error {
	return nil
}

func cloneUsers(users []models.User, extra int) []models.User {
	out := make([]models.User, len(users), len(users)+extra)
	copy(out, users)
	return out
}

func cloneExpenses(expenses []models.Expense) []models.Expense {
	out := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e
		out[i].SplitWith = append([]string(nil), e.SplitWith...)
	}
	return out
}
